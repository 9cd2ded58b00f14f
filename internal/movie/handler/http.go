// Package handler exposes the movie catalog over HTTP under /movies.
package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"movie-booking-admin/backend/internal/movie/domain"
	"movie-booking-admin/backend/internal/movie/repository"
	"movie-booking-admin/backend/internal/platform/apperr"
	"movie-booking-admin/backend/internal/platform/response"
)

const (
	MsgMoviesListed   = "Movies fetched successfully!"
	MsgMovieAdded     = "New movie added successfully!"
	MsgMovieUpdated   = "Movie updated successfully!"
	MsgMovieDeleted   = "Movie deleted successfully!"
	MsgMovieNotFound  = "Movie does not exist!"
	MsgStarAdded      = "Movie star added successfully!"
	MsgStarUpdated    = "Movie star updated successfully!"
	MsgStarRemoved    = "Movie star removed successfully!"
	MsgStarNotFound   = "Movie star does not exist!"
	MsgStarsLinked    = "Movie stars linked successfully!"
	MsgStarsListed    = "Movie stars fetched successfully!"
	MsgInvalidID      = "Invalid id."
	MsgInvalidBody    = "Invalid request body."
	MsgSomethingWrong = "Something went wrong."
)

// MovieHandler serves the /movies routes.
type MovieHandler struct {
	repo repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

// NewMovieHandler returns a MovieHandler. log may be nil.
func NewMovieHandler(repo repository.Repository, log *zap.Logger) *MovieHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MovieHandler{repo: repo, log: log, now: time.Now}
}

// Register mounts the routes on g, which must already require authentication.
func (h *MovieHandler) Register(g *gin.RouterGroup) {
	g.GET("/list", h.List)
	g.POST("/add-movie", h.Add)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	g.POST("/create-movie-star", h.CreateStar)
	g.PUT("/update-movie-star/:id", h.UpdateStar)
	g.DELETE("/remove-star/:id", h.RemoveStar)
	g.POST("/:id/stars", h.LinkStars)
	g.GET("/:id/stars", h.ListStars)
}

// List handles GET /movies/list?only_new=true|false|all.
func (h *MovieHandler) List(c *gin.Context) {
	filter, err := domain.ParseNewFilter(c.Query("only_new"))
	if err != nil {
		response.Fail(c, apperr.Validation(err.Error()), MsgSomethingWrong)
		return
	}
	movies, err := h.repo.ListMovies(c.Request.Context(), filter)
	if err != nil {
		h.storeFailure(c, "list movies", err)
		return
	}
	response.OK(c, MsgMoviesListed, movies)
}

// Add handles POST /movies/add-movie.
func (h *MovieHandler) Add(c *gin.Context) {
	var in domain.MovieInput
	if !bind(c, &in) {
		return
	}
	m, problems := domain.NewMovie(in, h.now().UTC())
	if len(problems) > 0 {
		response.Fail(c, apperr.Invalid(problems...), MsgSomethingWrong)
		return
	}
	if err := h.repo.CreateMovie(c.Request.Context(), m); err != nil {
		h.storeFailure(c, "create movie", err)
		return
	}
	response.Created(c, MsgMovieAdded, m)
}

// Update handles PUT /movies/:id. Only the provided fields change.
func (h *MovieHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in domain.MovieInput
	if !bind(c, &in) {
		return
	}
	m, ok := h.movie(c, id)
	if !ok {
		return
	}
	in.Apply(m, h.now().UTC())
	if problems := m.Validate(); len(problems) > 0 {
		response.Fail(c, apperr.Invalid(problems...), MsgSomethingWrong)
		return
	}
	if err := h.repo.UpdateMovie(c.Request.Context(), m); err != nil {
		h.storeFailure(c, "update movie", err)
		return
	}
	response.OK(c, MsgMovieUpdated, m)
}

// Delete handles DELETE /movies/:id.
func (h *MovieHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	deleted, err := h.repo.DeleteMovie(c.Request.Context(), id, h.now().UTC())
	if err != nil {
		h.storeFailure(c, "delete movie", err)
		return
	}
	if !deleted {
		response.Fail(c, apperr.NotFound(MsgMovieNotFound), MsgSomethingWrong)
		return
	}
	response.OK(c, MsgMovieDeleted, nil)
}

// CreateStar handles POST /movies/create-movie-star.
func (h *MovieHandler) CreateStar(c *gin.Context) {
	var in domain.StarInput
	if !bind(c, &in) {
		return
	}
	s, problems := domain.NewStar(in, h.now().UTC())
	if len(problems) > 0 {
		response.Fail(c, apperr.Invalid(problems...), MsgSomethingWrong)
		return
	}
	if err := h.repo.CreateStar(c.Request.Context(), s); err != nil {
		h.storeFailure(c, "create star", err)
		return
	}
	response.Created(c, MsgStarAdded, s)
}

// UpdateStar handles PUT /movies/update-movie-star/:id.
func (h *MovieHandler) UpdateStar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in domain.StarInput
	if !bind(c, &in) {
		return
	}
	s, err := h.repo.GetStar(c.Request.Context(), id)
	if err != nil {
		h.storeFailure(c, "get star", err)
		return
	}
	if s == nil {
		response.Fail(c, apperr.NotFound(MsgStarNotFound), MsgSomethingWrong)
		return
	}
	now := h.now().UTC()
	in.Apply(s, now)
	if problems := s.Validate(now); len(problems) > 0 {
		response.Fail(c, apperr.Invalid(problems...), MsgSomethingWrong)
		return
	}
	if err := h.repo.UpdateStar(c.Request.Context(), s); err != nil {
		h.storeFailure(c, "update star", err)
		return
	}
	response.OK(c, MsgStarUpdated, s)
}

// RemoveStar handles DELETE /movies/remove-star/:id.
func (h *MovieHandler) RemoveStar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	deleted, err := h.repo.DeleteStar(c.Request.Context(), id, h.now().UTC())
	if err != nil {
		h.storeFailure(c, "delete star", err)
		return
	}
	if !deleted {
		response.Fail(c, apperr.NotFound(MsgStarNotFound), MsgSomethingWrong)
		return
	}
	response.OK(c, MsgStarRemoved, nil)
}

// LinkStars handles POST /movies/:id/stars, replacing the movie's cast with star_ids.
func (h *MovieHandler) LinkStars(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var links domain.StarLinks
	if !bind(c, &links) {
		return
	}
	if problems := links.Validate(id); len(problems) > 0 {
		response.Fail(c, apperr.Invalid(problems...), MsgSomethingWrong)
		return
	}
	if _, ok := h.movie(c, id); !ok {
		return
	}
	err := h.repo.SetMovieStars(c.Request.Context(), id, links.StarIDs)
	if errors.Is(err, repository.ErrUnknownStar) {
		response.Fail(c, apperr.Validation(MsgStarNotFound), MsgSomethingWrong)
		return
	}
	if err != nil {
		h.storeFailure(c, "link stars", err)
		return
	}
	response.OK(c, MsgStarsLinked, nil)
}

// ListStars handles GET /movies/:id/stars.
func (h *MovieHandler) ListStars(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, ok := h.movie(c, id); !ok {
		return
	}
	stars, err := h.repo.ListMovieStars(c.Request.Context(), id)
	if err != nil {
		h.storeFailure(c, "list stars", err)
		return
	}
	response.OK(c, MsgStarsListed, stars)
}

// movie loads a live movie or writes the failure.
func (h *MovieHandler) movie(c *gin.Context, id int64) (*domain.Movie, bool) {
	m, err := h.repo.GetMovie(c.Request.Context(), id)
	if err != nil {
		h.storeFailure(c, "get movie", err)
		return nil, false
	}
	if m == nil {
		response.Fail(c, apperr.NotFound(MsgMovieNotFound), MsgSomethingWrong)
		return nil, false
	}
	return m, true
}

func (h *MovieHandler) storeFailure(c *gin.Context, op string, err error) {
	h.log.Error("movies: "+op, zap.String("route", c.FullPath()), zap.Error(err))
	response.Fail(c, apperr.Store(MsgSomethingWrong, err), MsgSomethingWrong)
}

func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		response.Fail(c, apperr.Validation(MsgInvalidBody), MsgSomethingWrong)
		return false
	}
	return true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, apperr.Validation(MsgInvalidID), MsgSomethingWrong)
		return 0, false
	}
	return id, true
}
