// Package handler exposes theaters, screens and show timings over HTTP under /theaters.
package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"movie-booking-admin/backend/internal/db"
	"movie-booking-admin/backend/internal/platform/apperr"
	"movie-booking-admin/backend/internal/platform/response"
	"movie-booking-admin/backend/internal/theater/domain"
	"movie-booking-admin/backend/internal/theater/repository"
)

const (
	MsgTheatersListed     = "Theaters fetched successfully!"
	MsgNoTheaters         = "No Theaters Found."
	MsgTheaterFetched     = "Theater fetched successfully!"
	MsgTheaterAdded       = "Theater added successfully!"
	MsgTheaterUpdated     = "Theater updated successfully!"
	MsgTheaterDeleted     = "Theater deleted successfully"
	MsgScreenAdded        = "Screen added to the theater successfully!"
	MsgScreenUpdated      = "Screen information updated successfully!"
	MsgScreensListed      = "Theater screens fetched successfully!"
	MsgScreenDeleted      = "Theater screen deleted successfully!"
	MsgShowTimingAdded    = "Show Timings added successfully!"
	MsgShowTimingUpdated  = "Show Timings updated successfully!"
	MsgShowTimingExists   = "Show timing already exists."
	MsgMovieScreensListed = "Movie screens fetched successfully!"
	MsgNoMovieScreens     = "No Theaters Found!"
	MsgUnknownReference   = "Theater, screen or movie does not exist."
	MsgInvalidID          = "Invalid id."
	MsgInvalidBody        = "Invalid request body."
	MsgSomethingWrong     = "Something went wrong."
)

// TheaterHandler serves the /theaters routes.
type TheaterHandler struct {
	repo repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

// NewTheaterHandler returns a TheaterHandler. log may be nil.
func NewTheaterHandler(repo repository.Repository, log *zap.Logger) *TheaterHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TheaterHandler{repo: repo, log: log, now: time.Now}
}

// Register mounts the routes on g, which must already require authentication.
func (h *TheaterHandler) Register(g *gin.RouterGroup) {
	g.GET("/list", h.List)
	g.GET("/:id", h.Get)
	g.POST("/", h.Add)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	g.POST("/screen", h.AddScreen)
	g.PUT("/screen/:id", h.UpdateScreen)
	g.GET("/screens/:theater_id", h.ListScreens)
	g.DELETE("/screens/:id", h.DeleteScreen)

	g.POST("/screen/show-timings", h.AddShowTiming)
	g.PUT("/screen/show-timings/:id", h.UpdateShowTiming)
	g.GET("/list-screens/:movie_id", h.ListMovieScreens)
}

// List handles GET /theaters/list. An empty list is reported with status false.
func (h *TheaterHandler) List(c *gin.Context) {
	theaters, err := h.repo.ListTheaters(c.Request.Context())
	if err != nil {
		h.storeFailure(c, "list theaters", err)
		return
	}
	if len(theaters) == 0 {
		env := response.Failure(response.CodeOK, MsgNoTheaters)
		env.Data = theaters
		response.Write(c, env)
		return
	}
	response.OK(c, MsgTheatersListed, theaters)
}

// Get handles GET /theaters/:id.
func (h *TheaterHandler) Get(c *gin.Context) {
	t, ok := h.theater(c)
	if !ok {
		return
	}
	response.OK(c, MsgTheaterFetched, t)
}

// Add handles POST /theaters/.
func (h *TheaterHandler) Add(c *gin.Context) {
	var in domain.TheaterInput
	if !bind(c, &in) {
		return
	}
	t, problems := domain.NewTheater(in, h.now().UTC())
	if len(problems) > 0 {
		response.Fail(c, apperr.Invalid(problems...), MsgSomethingWrong)
		return
	}
	if err := h.repo.CreateTheater(c.Request.Context(), t); err != nil {
		h.storeFailure(c, "create theater", err)
		return
	}
	response.Created(c, MsgTheaterAdded, t)
}

// Update handles PUT /theaters/:id.
func (h *TheaterHandler) Update(c *gin.Context) {
	var in domain.TheaterInput
	if !bind(c, &in) {
		return
	}
	t, ok := h.theater(c)
	if !ok {
		return
	}
	in.Apply(t, h.now().UTC())
	if problems := t.Validate(); len(problems) > 0 {
		response.Fail(c, apperr.Invalid(problems...), MsgSomethingWrong)
		return
	}
	if err := h.repo.UpdateTheater(c.Request.Context(), t); err != nil {
		h.storeFailure(c, "update theater", err)
		return
	}
	response.OK(c, MsgTheaterUpdated, t)
}

// Delete handles DELETE /theaters/:id.
func (h *TheaterHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	deleted, err := h.repo.DeleteTheater(c.Request.Context(), id, h.now().UTC())
	if err != nil {
		h.storeFailure(c, "delete theater", err)
		return
	}
	if !deleted {
		response.Fail(c, apperr.NotFound(fmt.Sprintf("No Theaters present with id: %d.", id)), MsgSomethingWrong)
		return
	}
	response.OK(c, MsgTheaterDeleted, nil)
}

// AddScreen handles POST /theaters/screen.
func (h *TheaterHandler) AddScreen(c *gin.Context) {
	var in domain.ScreenInput
	if !bind(c, &in) {
		return
	}
	s, problems := domain.NewScreen(in, h.now().UTC())
	if len(problems) > 0 {
		response.Fail(c, apperr.Invalid(problems...), MsgSomethingWrong)
		return
	}
	if !h.theaterExists(c, s.TheaterID) {
		return
	}
	if err := h.repo.CreateScreen(c.Request.Context(), s); err != nil {
		h.writeFailure(c, "create screen", err)
		return
	}
	response.Created(c, MsgScreenAdded, s)
}

// UpdateScreen handles PUT /theaters/screen/:id.
func (h *TheaterHandler) UpdateScreen(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in domain.ScreenInput
	if !bind(c, &in) {
		return
	}
	s, err := h.repo.GetScreen(c.Request.Context(), id)
	if err != nil {
		h.storeFailure(c, "get screen", err)
		return
	}
	if s == nil {
		response.Fail(c, apperr.NotFound(screenNotFound(id)), MsgSomethingWrong)
		return
	}
	in.Apply(s, h.now().UTC())
	if problems := s.Validate(); len(problems) > 0 {
		response.Fail(c, apperr.Invalid(problems...), MsgSomethingWrong)
		return
	}
	if in.TheaterID != nil && !h.theaterExists(c, s.TheaterID) {
		return
	}
	if err := h.repo.UpdateScreen(c.Request.Context(), s); err != nil {
		h.writeFailure(c, "update screen", err)
		return
	}
	response.OK(c, MsgScreenUpdated, s)
}

// ListScreens handles GET /theaters/screens/:theater_id.
func (h *TheaterHandler) ListScreens(c *gin.Context) {
	id, ok := pathID(c, "theater_id")
	if !ok {
		return
	}
	screens, err := h.repo.ListScreens(c.Request.Context(), id)
	if err != nil {
		h.storeFailure(c, "list screens", err)
		return
	}
	response.OK(c, MsgScreensListed, screens)
}

// DeleteScreen handles DELETE /theaters/screens/:id.
func (h *TheaterHandler) DeleteScreen(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	deleted, err := h.repo.DeleteScreen(c.Request.Context(), id, h.now().UTC())
	if err != nil {
		h.storeFailure(c, "delete screen", err)
		return
	}
	if !deleted {
		response.Fail(c, apperr.NotFound(screenNotFound(id)), MsgSomethingWrong)
		return
	}
	response.OK(c, MsgScreenDeleted, nil)
}

// AddShowTiming handles POST /theaters/screen/show-timings.
func (h *TheaterHandler) AddShowTiming(c *gin.Context) {
	var in domain.ShowTimingInput
	if !bind(c, &in) {
		return
	}
	s, problems := domain.NewShowTiming(in, h.now().UTC())
	if len(problems) > 0 {
		response.Fail(c, apperr.Invalid(problems...), MsgSomethingWrong)
		return
	}
	if !h.screenInTheater(c, s) {
		return
	}
	if err := h.repo.CreateShowTiming(c.Request.Context(), s); err != nil {
		h.writeFailure(c, "create show timing", err)
		return
	}
	response.Created(c, MsgShowTimingAdded, s)
}

// UpdateShowTiming handles PUT /theaters/screen/show-timings/:id.
func (h *TheaterHandler) UpdateShowTiming(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in domain.ShowTimingInput
	if !bind(c, &in) {
		return
	}
	s, err := h.repo.GetShowTiming(c.Request.Context(), id)
	if err != nil {
		h.storeFailure(c, "get show timing", err)
		return
	}
	if s == nil {
		response.Fail(c, apperr.NotFound(fmt.Sprintf("No Showtimings present with id: %d.", id)), MsgSomethingWrong)
		return
	}
	in.Apply(s, h.now().UTC())
	if problems := s.Validate(); len(problems) > 0 {
		response.Fail(c, apperr.Invalid(problems...), MsgSomethingWrong)
		return
	}
	if (in.TheaterID != nil || in.ScreenID != nil) && !h.screenInTheater(c, s) {
		return
	}
	if err := h.repo.UpdateShowTiming(c.Request.Context(), s); err != nil {
		h.writeFailure(c, "update show timing", err)
		return
	}
	response.OK(c, MsgShowTimingUpdated, s)
}

// ListMovieScreens handles GET /theaters/list-screens/:movie_id: the theaters running the
// movie, each with its screens and their show timings in start order.
func (h *TheaterHandler) ListMovieScreens(c *gin.Context) {
	id, ok := pathID(c, "movie_id")
	if !ok {
		return
	}
	rows, err := h.repo.RunningShows(c.Request.Context(), id)
	if err != nil {
		h.storeFailure(c, "running shows", err)
		return
	}
	grouped := domain.GroupShows(rows)
	if len(grouped) == 0 {
		response.OK(c, MsgNoMovieScreens, grouped)
		return
	}
	response.OK(c, MsgMovieScreensListed, grouped)
}

// theater loads the live theater named by :id or writes the failure.
func (h *TheaterHandler) theater(c *gin.Context) (*domain.Theater, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}
	t, err := h.repo.GetTheater(c.Request.Context(), id)
	if err != nil {
		h.storeFailure(c, "get theater", err)
		return nil, false
	}
	if t == nil {
		response.Fail(c, apperr.NotFound(theaterNotFound(id)), MsgSomethingWrong)
		return nil, false
	}
	return t, true
}

func (h *TheaterHandler) theaterExists(c *gin.Context, id int64) bool {
	t, err := h.repo.GetTheater(c.Request.Context(), id)
	if err != nil {
		h.storeFailure(c, "get theater", err)
		return false
	}
	if t == nil {
		response.Fail(c, apperr.Validation(theaterNotFound(id)), MsgSomethingWrong)
		return false
	}
	return true
}

// screenInTheater checks that the show's screen is live and belongs to its theater.
func (h *TheaterHandler) screenInTheater(c *gin.Context, s *domain.ShowTiming) bool {
	screen, err := h.repo.GetScreen(c.Request.Context(), s.ScreenID)
	if err != nil {
		h.storeFailure(c, "get screen", err)
		return false
	}
	if screen == nil || screen.TheaterID != s.TheaterID {
		response.Fail(c, apperr.Validation(
			fmt.Sprintf("Screen %d does not belong to theater %d.", s.ScreenID, s.TheaterID)), MsgSomethingWrong)
		return false
	}
	return true
}

// writeFailure maps constraint violations to client errors.
func (h *TheaterHandler) writeFailure(c *gin.Context, op string, err error) {
	switch {
	case db.IsUniqueViolation(err):
		response.Fail(c, apperr.Validation(MsgShowTimingExists), MsgSomethingWrong)
	case db.IsForeignKeyViolation(err):
		response.Fail(c, apperr.Validation(MsgUnknownReference), MsgSomethingWrong)
	default:
		h.storeFailure(c, op, err)
	}
}

func (h *TheaterHandler) storeFailure(c *gin.Context, op string, err error) {
	h.log.Error("theaters: "+op, zap.String("route", c.FullPath()), zap.Error(err))
	response.Fail(c, apperr.Store(MsgSomethingWrong, err), MsgSomethingWrong)
}

func theaterNotFound(id int64) string { return fmt.Sprintf("No Theater Found with Id: %d.", id) }

func screenNotFound(id int64) string { return fmt.Sprintf("No Theater Screen present with id: %d", id) }

func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		response.Fail(c, apperr.Validation(MsgInvalidBody), MsgSomethingWrong)
		return false
	}
	return true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, apperr.Validation(MsgInvalidID), MsgSomethingWrong)
		return 0, false
	}
	return id, true
}
