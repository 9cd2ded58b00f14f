// Package domain holds theaters, their screens and the show timings scheduled on them.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Limits enforced on theater fields.
const (
	MaxTheaterNameLen = 30
	MaxScreenNameLen  = 10
)

// Theater is a cinema with a number of screens.
type Theater struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"theater_name" json:"theater_name"`
	NoOfScreens int       `db:"no_of_screens" json:"no_of_screens"`
	IsDeleted   bool      `db:"is_deleted" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	ModifiedAt  time.Time `db:"modified_at" json:"modified_at"`
}

func (t *Theater) Validate() []string {
	var problems []string
	switch {
	case strings.TrimSpace(t.Name) == "":
		problems = append(problems, "Theater name cannot be empty.")
	case len(t.Name) > MaxTheaterNameLen:
		problems = append(problems, fmt.Sprintf("theater_name must be at most %d characters", MaxTheaterNameLen))
	}
	if t.NoOfScreens < 0 {
		problems = append(problems, "no_of_screens must not be negative")
	}
	return problems
}

// TheaterInput is the body of theater create and update.
type TheaterInput struct {
	Name        *string `json:"theater_name"`
	NoOfScreens *int    `json:"no_of_screens"`
}

// NewTheater builds a theater. Both fields are required.
func NewTheater(in TheaterInput, now time.Time) (*Theater, []string) {
	t := &Theater{CreatedAt: now}
	in.Apply(t, now)
	problems := t.Validate()
	if in.NoOfScreens == nil {
		problems = append(problems, "no_of_screens is required")
	}
	return t, problems
}

// Apply copies the provided fields onto t and stamps ModifiedAt.
func (in TheaterInput) Apply(t *Theater, now time.Time) {
	if in.Name != nil {
		t.Name = strings.TrimSpace(*in.Name)
	}
	if in.NoOfScreens != nil {
		t.NoOfScreens = *in.NoOfScreens
	}
	t.ModifiedAt = now
}
