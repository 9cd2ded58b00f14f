package domain

import (
	"fmt"
	"strings"
	"time"
)

// Star is a cast member that can be linked to movies. TotalMovies counts its links.
type Star struct {
	ID              int64      `db:"id" json:"id"`
	Name            string     `db:"star_name" json:"star_name"`
	CareerStartedAt Date       `db:"carrier_started_at" json:"carrier_started_at"`
	TotalMovies     int        `db:"total_movies" json:"total_movies"`
	ImageURLs       StringList `db:"image_urls" json:"image_urls"`
	IsDeleted       bool       `db:"is_deleted" json:"-"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	ModifiedAt      time.Time  `db:"modified_at" json:"modified_at"`
}

// Validate returns every rule the star breaks. today bounds the career start date.
func (s *Star) Validate(today time.Time) []string {
	var problems []string
	switch {
	case strings.TrimSpace(s.Name) == "":
		problems = append(problems, "star_name is required")
	case len(s.Name) > MaxStarNameLen:
		problems = append(problems, fmt.Sprintf("star_name must be at most %d characters", MaxStarNameLen))
	}
	switch {
	case s.CareerStartedAt.IsZero():
		problems = append(problems, "carrier_started_at is required")
	case s.CareerStartedAt.After(today):
		problems = append(problems, "Carrier start date cannot be future date.")
	}
	problems = append(problems, checkURLs("image_urls", s.ImageURLs)...)
	return problems
}

// StarInput is the body of create-movie-star and update-movie-star.
type StarInput struct {
	Name            *string  `json:"star_name"`
	CareerStartedAt *Date    `json:"carrier_started_at"`
	ImageURLs       []string `json:"image_urls"`
}

// NewStar builds a star from in.
func NewStar(in StarInput, now time.Time) (*Star, []string) {
	s := &Star{ImageURLs: StringList{}, CreatedAt: now}
	in.Apply(s, now)
	return s, s.Validate(now)
}

// Apply copies the provided fields onto s and stamps ModifiedAt.
func (in StarInput) Apply(s *Star, now time.Time) {
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.CareerStartedAt != nil {
		s.CareerStartedAt = *in.CareerStartedAt
	}
	if in.ImageURLs != nil {
		s.ImageURLs = in.ImageURLs
	}
	s.ModifiedAt = now
}

// StarLinks is the body of POST /movies/:id/stars. It replaces the movie's cast.
type StarLinks struct {
	StarIDs []int64 `json:"star_ids"`
}

// Validate rejects non-positive and repeated ids.
func (l StarLinks) Validate(movieID int64) []string {
	seen := make(map[int64]bool, len(l.StarIDs))
	var problems []string
	for _, id := range l.StarIDs {
		if id <= 0 || seen[id] {
			problems = append(problems, fmt.Sprintf("Invalid star id %d. Cannot create relation with movie id %d.", id, movieID))
			continue
		}
		seen[id] = true
	}
	return problems
}
