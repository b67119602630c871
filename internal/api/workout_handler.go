package api

import (
	"net/http"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

type SetRequest struct {
	SetNumber int           `json:"set_number"`
	Weight    domain.Number `json:"weight"`
	Reps      int           `json:"reps"`
	Completed bool          `json:"completed"`
}

// SaveWorkoutRequest records one exercise. Date is YYYY-MM-DD and defaults
// to today (UTC).
type SaveWorkoutRequest struct {
	ExerciseID string       `json:"exercise_id" binding:"required"`
	Date       string       `json:"date"`
	Notes      string       `json:"notes" binding:"max=2000"`
	Sets       []SetRequest `json:"sets" binding:"dive"`
}

type UpdateSessionRequest struct {
	SessionName     string `json:"session_name" binding:"max=128"`
	DurationMinutes *int   `json:"duration_minutes"`
}

type UpdateSetRequest struct {
	Weight domain.Number `json:"weight"`
	Reps   int           `json:"reps"`
}

// SaveWorkout godoc
// @Summary Save a completed exercise to today's session
// @Tags Workouts
// @Accept json
// @Produce json
// @Param workout body SaveWorkoutRequest true "Exercise, date and sets"
// @Success 201 {object} service.SaveWorkoutResult
// @Failure 400 {object} gin.H "Invalid input"
// @Router /workouts [post]
func (h *WorkoutHandler) SaveWorkout(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req SaveWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	sets := make([]domain.SetInput, len(req.Sets))
	for i, s := range req.Sets {
		sets[i] = domain.SetInput{
			SetNumber: s.SetNumber,
			Weight:    s.Weight.Float64(),
			Reps:      s.Reps,
			Completed: s.Completed,
		}
	}

	result, err := h.workoutService.SaveWorkout(c.Request.Context(), id, service.SaveWorkoutInput{
		ExerciseID: req.ExerciseID,
		Date:       req.Date,
		Notes:      req.Notes,
		Sets:       sets,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *WorkoutHandler) ListSessions(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	sessions, err := h.workoutService.ListSessions(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *WorkoutHandler) GetSession(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	details, err := h.workoutService.GetSessionDetails(c.Request.Context(), id, c.Param("sessionId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *WorkoutHandler) UpdateSession(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	session, err := h.workoutService.UpdateSession(c.Request.Context(), id, c.Param("sessionId"), req.SessionName, req.DurationMinutes)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *WorkoutHandler) UpdateSet(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req UpdateSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	set, err := h.workoutService.UpdateSet(c.Request.Context(), id, c.Param("setId"), req.Weight.Float64(), req.Reps)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}
