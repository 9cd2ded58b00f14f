package domain

import (
	"fmt"
	"strings"
	"time"
)

// ScreenStatus is whether a screen is in use.
type ScreenStatus int

const (
	ScreenActive    ScreenStatus = 1
	ScreenNotActive ScreenStatus = 2
)

// Screen is an auditorium inside a theater.
type Screen struct {
	ID         int64        `db:"id" json:"id"`
	Name       string       `db:"screen_name" json:"screen_name"`
	TheaterID  int64        `db:"theater_id" json:"theater_id"`
	Status     ScreenStatus `db:"status" json:"status"`
	TotalSeats int          `db:"total_seats" json:"total_seats"`
	IsDeleted  bool         `db:"is_deleted" json:"-"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	ModifiedAt time.Time    `db:"modified_at" json:"modified_at"`
}

func (s *Screen) Validate() []string {
	var problems []string
	switch {
	case strings.TrimSpace(s.Name) == "":
		problems = append(problems, "screen_name is required")
	case len(s.Name) > MaxScreenNameLen:
		problems = append(problems, fmt.Sprintf("screen_name must be at most %d characters", MaxScreenNameLen))
	}
	if s.TheaterID <= 0 {
		problems = append(problems, "theater_id is required")
	}
	if s.Status != ScreenActive && s.Status != ScreenNotActive {
		problems = append(problems, "status must be 1 (active) or 2 (not active)")
	}
	if s.TotalSeats <= 0 {
		problems = append(problems, "total_seats must be greater than 0")
	}
	return problems
}

// ScreenInput is the body of screen create and update.
type ScreenInput struct {
	Name       *string       `json:"screen_name"`
	TheaterID  *int64        `json:"theater_id"`
	Status     *ScreenStatus `json:"status"`
	TotalSeats *int          `json:"total_seats"`
}

// NewScreen builds a screen. Status defaults to active.
func NewScreen(in ScreenInput, now time.Time) (*Screen, []string) {
	s := &Screen{Status: ScreenActive, CreatedAt: now}
	in.Apply(s, now)
	return s, s.Validate()
}

// Apply copies the provided fields onto s and stamps ModifiedAt.
func (in ScreenInput) Apply(s *Screen, now time.Time) {
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.TheaterID != nil {
		s.TheaterID = *in.TheaterID
	}
	if in.Status != nil {
		s.Status = *in.Status
	}
	if in.TotalSeats != nil {
		s.TotalSeats = *in.TotalSeats
	}
	s.ModifiedAt = now
}
