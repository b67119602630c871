package api

import (
	"net/http"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ProgramHandler serves program CRUD and program exercises.
type ProgramHandler struct {
	programService service.ProgramService
}

func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// --- DTOs ---

type ProgramRequest struct {
	Name        string           `json:"name" binding:"required,max=128"`
	FocusArea   domain.FocusArea `json:"focus_area"`
	Level       domain.Level     `json:"level"`
	Description string           `json:"description" binding:"max=2000"`
}

func (r ProgramRequest) input() service.ProgramInput {
	return service.ProgramInput{
		Name:        r.Name,
		FocusArea:   r.FocusArea,
		Level:       r.Level,
		Description: r.Description,
	}
}

// AddProgramExerciseRequest appends an exercise. Zero targets fall back to
// 3 sets of 10.
type AddProgramExerciseRequest struct {
	ExerciseID string `json:"exercise_id" binding:"required"`
	SetsTarget int    `json:"sets_target"`
	RepsTarget int    `json:"reps_target"`
}

func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	programs, err := h.programService.List(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, programs)
}

func (h *ProgramHandler) GetProgram(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	program, err := h.programService.Get(c.Request.Context(), id, c.Param("programId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// CreateProgram godoc
// @Summary Create a program
// @Tags Programs
// @Accept json
// @Produce json
// @Param program body ProgramRequest true "Program"
// @Success 201 {object} domain.Program
// @Failure 400 {object} gin.H "Invalid input"
// @Router /programs [post]
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	program, err := h.programService.Create(c.Request.Context(), id, req.input())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, program)
}

func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	program, err := h.programService.Update(c.Request.Context(), id, c.Param("programId"), req.input())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	if err := h.programService.Delete(c.Request.Context(), id, c.Param("programId")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProgramHandler) AddExercise(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req AddProgramExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	pe, err := h.programService.AddExercise(c.Request.Context(), id, c.Param("programId"), req.ExerciseID, req.SetsTarget, req.RepsTarget)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pe)
}

func (h *ProgramHandler) RemoveExercise(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	err := h.programService.RemoveExercise(c.Request.Context(), id, c.Param("programId"), c.Param("programExerciseId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
