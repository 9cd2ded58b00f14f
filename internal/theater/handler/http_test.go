package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"movie-booking-admin/backend/internal/platform/response"
	"movie-booking-admin/backend/internal/theater/domain"
)

type memRepo struct {
	theaters map[int64]*domain.Theater
	screens  map[int64]*domain.Screen
	shows    map[int64]*domain.ShowTiming
	nextID   int64
}

func newMemRepo() *memRepo {
	return &memRepo{
		theaters: map[int64]*domain.Theater{},
		screens:  map[int64]*domain.Screen{},
		shows:    map[int64]*domain.ShowTiming{},
	}
}

func (r *memRepo) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *memRepo) ListTheaters(context.Context) ([]domain.Theater, error) {
	out := []domain.Theater{}
	for _, t := range r.theaters {
		if !t.IsDeleted {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) GetTheater(_ context.Context, id int64) (*domain.Theater, error) {
	if t, ok := r.theaters[id]; ok && !t.IsDeleted {
		c := *t
		return &c, nil
	}
	return nil, nil
}

func (r *memRepo) CreateTheater(_ context.Context, t *domain.Theater) error {
	t.ID = r.id()
	c := *t
	r.theaters[t.ID] = &c
	return nil
}

func (r *memRepo) UpdateTheater(_ context.Context, t *domain.Theater) error {
	c := *t
	r.theaters[t.ID] = &c
	return nil
}

func (r *memRepo) DeleteTheater(_ context.Context, id int64, _ time.Time) (bool, error) {
	t, ok := r.theaters[id]
	if !ok || t.IsDeleted {
		return false, nil
	}
	t.IsDeleted = true
	return true, nil
}

func (r *memRepo) GetScreen(_ context.Context, id int64) (*domain.Screen, error) {
	if s, ok := r.screens[id]; ok && !s.IsDeleted {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (r *memRepo) ListScreens(_ context.Context, theaterID int64) ([]domain.Screen, error) {
	out := []domain.Screen{}
	for _, s := range r.screens {
		if s.TheaterID == theaterID && !s.IsDeleted {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memRepo) CreateScreen(_ context.Context, s *domain.Screen) error {
	s.ID = r.id()
	c := *s
	r.screens[s.ID] = &c
	return nil
}

func (r *memRepo) UpdateScreen(_ context.Context, s *domain.Screen) error {
	c := *s
	r.screens[s.ID] = &c
	return nil
}

func (r *memRepo) DeleteScreen(_ context.Context, id int64, _ time.Time) (bool, error) {
	s, ok := r.screens[id]
	if !ok || s.IsDeleted {
		return false, nil
	}
	s.IsDeleted = true
	return true, nil
}

func (r *memRepo) GetShowTiming(_ context.Context, id int64) (*domain.ShowTiming, error) {
	if s, ok := r.shows[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (r *memRepo) CreateShowTiming(_ context.Context, s *domain.ShowTiming) error {
	for _, other := range r.shows {
		if other.MovieID == s.MovieID && other.TheaterID == s.TheaterID && other.ScreenID == s.ScreenID && other.StartsAt == s.StartsAt {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	s.ID = r.id()
	c := *s
	r.shows[s.ID] = &c
	return nil
}

func (r *memRepo) UpdateShowTiming(_ context.Context, s *domain.ShowTiming) error {
	c := *s
	r.shows[s.ID] = &c
	return nil
}

func (r *memRepo) RunningShows(_ context.Context, movieID int64) ([]domain.ShowRow, error) {
	var rows []domain.ShowRow
	for _, s := range r.shows {
		if s.MovieID != movieID || !s.IsCurrentlyRunning {
			continue
		}
		rows = append(rows, domain.ShowRow{Theater: *r.theaters[s.TheaterID], Screen: *r.screens[s.ScreenID], Show: *s})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Show.StartsAt.Before(rows[j].Show.StartsAt) })
	return rows, nil
}

func newRouter(repo *memRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewTheaterHandler(repo, nil).Register(r.Group("/theaters"))
	return r
}

func call(t *testing.T, r *gin.Engine, method, path, body string) response.Envelope {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestTheaterCRUD(t *testing.T) {
	repo := newMemRepo()
	r := newRouter(repo)

	env := call(t, r, http.MethodGet, "/theaters/list", "")
	require.Equal(t, response.CodeOK, env.StatusCode)
	require.False(t, env.Status)
	require.Equal(t, MsgNoTheaters, env.Msg)

	env = call(t, r, http.MethodPost, "/theaters/", `{"theater_name":"PVR","no_of_screens":3}`)
	require.Equal(t, response.CodeCreated, env.StatusCode, env.Msg)

	env = call(t, r, http.MethodGet, "/theaters/list", "")
	require.True(t, env.Status)
	require.Len(t, env.Data, 1)

	env = call(t, r, http.MethodPut, "/theaters/1", `{"no_of_screens":5}`)
	require.Equal(t, MsgTheaterUpdated, env.Msg)
	require.Equal(t, "PVR", repo.theaters[1].Name)
	require.Equal(t, 5, repo.theaters[1].NoOfScreens)

	env = call(t, r, http.MethodGet, "/theaters/1", "")
	require.Equal(t, MsgTheaterFetched, env.Msg)

	env = call(t, r, http.MethodDelete, "/theaters/1", "")
	require.Equal(t, MsgTheaterDeleted, env.Msg)

	env = call(t, r, http.MethodGet, "/theaters/1", "")
	require.Equal(t, response.CodeClientError, env.StatusCode)
	require.Equal(t, "No Theater Found with Id: 1.", env.Msg)

	env = call(t, r, http.MethodPost, "/theaters/", `{"theater_name":"","no_of_screens":1}`)
	require.Equal(t, response.CodeClientError, env.StatusCode)
	require.Equal(t, "Theater name cannot be empty.", env.Msg)
}

func TestScreensAndShowTimings(t *testing.T) {
	repo := newMemRepo()
	r := newRouter(repo)
	call(t, r, http.MethodPost, "/theaters/", `{"theater_name":"PVR","no_of_screens":2}`)
	call(t, r, http.MethodPost, "/theaters/", `{"theater_name":"INOX","no_of_screens":1}`)

	env := call(t, r, http.MethodPost, "/theaters/screen", `{"screen_name":"A1","theater_id":1,"status":1,"total_seats":100}`)
	require.Equal(t, response.CodeCreated, env.StatusCode, env.Msg)
	require.Equal(t, MsgScreenAdded, env.Msg)
	call(t, r, http.MethodPost, "/theaters/screen", `{"screen_name":"B1","theater_id":2,"total_seats":80}`)

	env = call(t, r, http.MethodPost, "/theaters/screen", `{"screen_name":"X","theater_id":42,"total_seats":10}`)
	require.Equal(t, "No Theater Found with Id: 42.", env.Msg)

	env = call(t, r, http.MethodPut, "/theaters/screen/3", `{"total_seats":150}`)
	require.Equal(t, MsgScreenUpdated, env.Msg)
	require.Equal(t, 150, repo.screens[3].TotalSeats)

	env = call(t, r, http.MethodGet, "/theaters/screens/1", "")
	require.Equal(t, MsgScreensListed, env.Msg)
	require.Len(t, env.Data, 1)

	add := func(body string) response.Envelope {
		return call(t, r, http.MethodPost, "/theaters/screen/show-timings", body)
	}
	env = add(`{"theater_id":1,"screen_id":3,"movie_id":7,"show_starts_at":"18:00","is_currently_running":true}`)
	require.Equal(t, response.CodeCreated, env.StatusCode, env.Msg)
	require.Equal(t, MsgShowTimingAdded, env.Msg)
	add(`{"theater_id":2,"screen_id":4,"movie_id":7,"show_starts_at":"09:30"}`)
	add(`{"theater_id":1,"screen_id":3,"movie_id":7,"show_starts_at":"11:00"}`)

	env = add(`{"theater_id":1,"screen_id":3,"movie_id":7,"show_starts_at":"18:00:00"}`)
	require.Equal(t, response.CodeClientError, env.StatusCode)
	require.Equal(t, MsgShowTimingExists, env.Msg)

	env = add(`{"theater_id":2,"screen_id":3,"movie_id":7,"show_starts_at":"20:00"}`)
	require.Equal(t, "Screen 3 does not belong to theater 2.", env.Msg)

	env = call(t, r, http.MethodGet, "/theaters/list-screens/7", "")
	require.Equal(t, MsgMovieScreensListed, env.Msg)
	theaters := env.Data.([]any)
	require.Len(t, theaters, 2)
	first := theaters[0].(map[string]any)
	require.Equal(t, "INOX", first["theater_name"])
	pvrScreens := theaters[1].(map[string]any)["screens"].([]any)
	timings := pvrScreens[0].(map[string]any)["show_timings"].([]any)
	require.Equal(t, "11:00:00", timings[0].(map[string]any)["show_starts_at"])
	require.Equal(t, "18:00:00", timings[1].(map[string]any)["show_starts_at"])

	env = call(t, r, http.MethodPut, "/theaters/screen/show-timings/5", `{"is_currently_running":false}`)
	require.Equal(t, MsgShowTimingUpdated, env.Msg)
	env = call(t, r, http.MethodPut, "/theaters/screen/show-timings/99", `{"is_currently_running":false}`)
	require.Equal(t, "No Showtimings present with id: 99.", env.Msg)

	env = call(t, r, http.MethodGet, "/theaters/list-screens/8", "")
	require.Equal(t, MsgNoMovieScreens, env.Msg)
	require.True(t, env.Status)

	env = call(t, r, http.MethodDelete, "/theaters/screens/3", "")
	require.Equal(t, MsgScreenDeleted, env.Msg)
	env = call(t, r, http.MethodDelete, "/theaters/screens/3", "")
	require.Equal(t, "No Theater Screen present with id: 3", env.Msg)
}
