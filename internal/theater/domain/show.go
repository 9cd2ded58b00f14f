package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ClockTime is a time of day with second precision, written HH:MM:SS.
type ClockTime struct {
	Hour, Minute, Second int
}

// ParseClockTime accepts HH:MM or HH:MM:SS, and the fractional form Postgres returns.
func ParseClockTime(s string) (ClockTime, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockTime{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return ClockTime{}, fmt.Errorf("time must be HH:MM or HH:MM:SS, got %q", s)
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// Before orders clock times within a day.
func (c ClockTime) Before(o ClockTime) bool {
	return c.seconds() < o.seconds()
}

func (c ClockTime) seconds() int { return c.Hour*3600 + c.Minute*60 + c.Second }

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c ClockTime) Value() (driver.Value, error) {
	return c.String(), nil
}

func (c *ClockTime) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseClockTime(v)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case []byte:
		return c.Scan(string(v))
	case time.Time:
		*c = ClockTime{Hour: v.Hour(), Minute: v.Minute(), Second: v.Second()}
		return nil
	}
	return fmt.Errorf("domain: cannot scan %T into ClockTime", src)
}

// ShowTiming schedules a movie on a screen at a time of day. (movie, theater, screen,
// starts_at) is unique.
type ShowTiming struct {
	ID                 int64     `db:"id" json:"id"`
	TheaterID          int64     `db:"theater_id" json:"theater_id"`
	ScreenID           int64     `db:"screen_id" json:"screen_id"`
	MovieID            int64     `db:"movie_id" json:"movie_id"`
	StartsAt           ClockTime `db:"show_starts_at" json:"show_starts_at"`
	IsCurrentlyRunning bool      `db:"is_currently_running" json:"is_currently_running"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	ModifiedAt         time.Time `db:"modified_at" json:"modified_at"`
}

func (s *ShowTiming) Validate() []string {
	var problems []string
	if s.TheaterID <= 0 {
		problems = append(problems, "theater_id is required")
	}
	if s.ScreenID <= 0 {
		problems = append(problems, "screen_id is required")
	}
	if s.MovieID <= 0 {
		problems = append(problems, "movie_id is required")
	}
	return problems
}

// ShowTimingInput is the body of show timing create and update.
type ShowTimingInput struct {
	TheaterID          *int64     `json:"theater_id"`
	ScreenID           *int64     `json:"screen_id"`
	MovieID            *int64     `json:"movie_id"`
	StartsAt           *ClockTime `json:"show_starts_at"`
	IsCurrentlyRunning *bool      `json:"is_currently_running"`
}

// NewShowTiming builds a show timing. The start time is required; running defaults to true.
func NewShowTiming(in ShowTimingInput, now time.Time) (*ShowTiming, []string) {
	s := &ShowTiming{IsCurrentlyRunning: true, CreatedAt: now}
	in.Apply(s, now)
	problems := s.Validate()
	if in.StartsAt == nil {
		problems = append(problems, "show_starts_at is required")
	}
	return s, problems
}

// Apply copies the provided fields onto s and stamps ModifiedAt.
func (in ShowTimingInput) Apply(s *ShowTiming, now time.Time) {
	if in.TheaterID != nil {
		s.TheaterID = *in.TheaterID
	}
	if in.ScreenID != nil {
		s.ScreenID = *in.ScreenID
	}
	if in.MovieID != nil {
		s.MovieID = *in.MovieID
	}
	if in.StartsAt != nil {
		s.StartsAt = *in.StartsAt
	}
	if in.IsCurrentlyRunning != nil {
		s.IsCurrentlyRunning = *in.IsCurrentlyRunning
	}
	s.ModifiedAt = now
}
