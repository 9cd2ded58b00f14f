// Package domain holds the movie catalog entities and their validation rules.
package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Limits enforced on catalog fields.
const (
	MaxMovieNameLen = 50
	MaxStarNameLen  = 50
	MaxURLs         = 10
	MaxRating       = 10
	// DefaultRunLength is how long a movie runs when no end date is given.
	DefaultRunLength = 7 * 24 * time.Hour
)

// Movie is a catalog entry. Rating is exclusive of 0 and 10.
type Movie struct {
	ID         int64      `db:"id" json:"id"`
	Name       string     `db:"movie_name" json:"movie_name"`
	Rating     float64    `db:"rating" json:"rating"`
	IsBrandNew bool       `db:"is_brand_new" json:"is_brand_new"`
	ImageURLs  StringList `db:"image_urls" json:"image_urls"`
	VideoURLs  StringList `db:"video_urls" json:"video_urls"`
	StartDate  time.Time  `db:"movie_start_date" json:"movie_start_date"`
	EndDate    time.Time  `db:"movie_end_date" json:"movie_end_date"`
	IsDeleted  bool       `db:"is_deleted" json:"-"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	ModifiedAt time.Time  `db:"modified_at" json:"modified_at"`
}

// Validate returns every rule the movie breaks.
func (m *Movie) Validate() []string {
	var problems []string
	switch {
	case strings.TrimSpace(m.Name) == "":
		problems = append(problems, "movie_name is required")
	case len(m.Name) > MaxMovieNameLen:
		problems = append(problems, fmt.Sprintf("movie_name must be at most %d characters", MaxMovieNameLen))
	}
	if m.Rating <= 0 || m.Rating >= MaxRating {
		problems = append(problems, "rating must be greater than 0 and less than 10")
	}
	if m.StartDate.IsZero() {
		problems = append(problems, "movie_start_date is required")
	} else if m.EndDate.Before(m.StartDate) {
		problems = append(problems, "movie_end_date cannot be less than movie_start_date.")
	}
	problems = append(problems, checkURLs("image_urls", m.ImageURLs)...)
	problems = append(problems, checkURLs("video_urls", m.VideoURLs)...)
	return problems
}

// MovieInput is the body of add-movie and of a movie update. Nil fields are left as they are
// on update; on create they take their defaults.
type MovieInput struct {
	Name       *string    `json:"movie_name"`
	Rating     *float64   `json:"rating"`
	IsBrandNew *bool      `json:"is_brand_new"`
	StartDate  *time.Time `json:"movie_start_date"`
	EndDate    *time.Time `json:"movie_end_date"`
	ImageURLs  []string   `json:"image_urls"`
	VideoURLs  []string   `json:"video_urls"`
}

// NewMovie builds a movie from in. is_brand_new defaults to true and the end date to
// DefaultRunLength after the start.
func NewMovie(in MovieInput, now time.Time) (*Movie, []string) {
	m := &Movie{
		IsBrandNew: true,
		ImageURLs:  StringList{},
		VideoURLs:  StringList{},
		CreatedAt:  now,
		ModifiedAt: now,
	}
	in.Apply(m, now)
	if in.EndDate == nil && in.StartDate != nil {
		m.EndDate = m.StartDate.Add(DefaultRunLength)
	}
	return m, m.Validate()
}

// Apply copies the provided fields onto m and stamps ModifiedAt.
func (in MovieInput) Apply(m *Movie, now time.Time) {
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Rating != nil {
		m.Rating = *in.Rating
	}
	if in.IsBrandNew != nil {
		m.IsBrandNew = *in.IsBrandNew
	}
	if in.StartDate != nil {
		m.StartDate = in.StartDate.UTC()
	}
	if in.EndDate != nil {
		m.EndDate = in.EndDate.UTC()
	}
	if in.ImageURLs != nil {
		m.ImageURLs = in.ImageURLs
	}
	if in.VideoURLs != nil {
		m.VideoURLs = in.VideoURLs
	}
	m.ModifiedAt = now
}

// NewFilter selects movies by their is_brand_new flag.
type NewFilter int

const (
	OnlyNew NewFilter = iota
	OnlyOld
	AllMovies
)

// ParseNewFilter reads the only_new query value. Empty means OnlyNew.
func ParseNewFilter(s string) (NewFilter, error) {
	switch strings.ToLower(s) {
	case "", "true":
		return OnlyNew, nil
	case "false":
		return OnlyOld, nil
	case "all":
		return AllMovies, nil
	}
	return OnlyNew, fmt.Errorf("only_new must be true, false or all")
}

func checkURLs(field string, urls []string) []string {
	if len(urls) > MaxURLs {
		return []string{fmt.Sprintf("%s must have at most %d items", field, MaxURLs)}
	}
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return []string{fmt.Sprintf("%s contains an invalid URL: %q", field, raw)}
		}
	}
	return nil
}
