package api

import (
	"net/http"
	"time"

	"alcyxob/workout-tracker/internal/catalog"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs for API (Data Transfer Objects) ---

// BrowseExercisesQuery is bound from the query string of GET /exercises.
// Equipment and muscle_group take comma-joined tag lists.
type BrowseExercisesQuery struct {
	Category    string `form:"category"`
	Equipment   string `form:"equipment"`
	MuscleGroup string `form:"muscle_group"`
	Query       string `form:"q"`
	Page        int    `form:"page" binding:"omitempty,min=0"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=0,max=200"`
	IDs         string `form:"ids"`
}

func (q BrowseExercisesQuery) criteria() catalog.Criteria {
	return catalog.Criteria{
		Category:     domain.Category(q.Category),
		Equipment:    catalog.SplitTags(q.Equipment),
		MuscleGroups: catalog.SplitTags(q.MuscleGroup),
		Text:         q.Query,
	}
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    domain.Category `json:"category"`
	MuscleGroup string          `json:"muscle_group"`
	Equipment   string          `json:"equipment"`
	Description string          `json:"description,omitempty"`
	ImgURL      string          `json:"img_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ExercisePageResponse wraps one page of the filtered catalog.
type ExercisePageResponse struct {
	Items      []ExerciseResponse `json:"items"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
	TotalItems int                `json:"total_items"`
}

type AttachImageRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:          ex.ID,
		Name:        ex.Name,
		Category:    ex.Category,
		MuscleGroup: ex.MuscleGroup,
		Equipment:   ex.Equipment,
		Description: ex.Description,
		ImgURL:      ex.ImgURL,
		CreatedAt:   ex.CreatedAt,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to a slice of ExerciseResponse DTOs.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	res := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		res[i] = MapExerciseToResponse(&exercises[i])
	}
	return res
}

// ListExercises godoc
// @Summary Browse the exercise catalog
// @Tags Exercises
// @Produce json
// @Param category query string false "Category"
// @Param equipment query string false "Comma-separated equipment, all must match"
// @Param muscle_group query string false "Comma-separated muscle groups, all must match"
// @Param q query string false "Text matched against name or muscle group"
// @Param page query int false "1-based page, clamped into range"
// @Param ids query string false "Comma-separated ids; returns exactly those exercises"
// @Success 200 {object} ExercisePageResponse
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	var q BrowseExercisesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}

	if ids := catalog.SplitTags(q.IDs); len(ids) > 0 {
		exercises, err := h.exerciseService.GetByIDs(c.Request.Context(), ids)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
		return
	}

	page, err := h.exerciseService.Browse(c.Request.Context(), q.criteria(), q.Page, q.PageSize)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExercisePageResponse{
		Items:      MapExercisesToResponse(page.Items),
		Page:       page.Number,
		PageSize:   page.Size,
		TotalPages: page.TotalPages,
		TotalItems: page.TotalItems,
	})
}

func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exercise, err := h.exerciseService.GetByID(c.Request.Context(), c.Param("exerciseId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// AttachImage godoc
// @Summary Request an upload URL for a new exercise image (admin)
// @Tags Exercises
// @Accept json
// @Produce json
// @Param exerciseId path string true "Exercise ID"
// @Param body body AttachImageRequest true "Image content type"
// @Success 200 {object} service.ImageUpload
// @Failure 403 {object} gin.H "Forbidden"
// @Router /admin/exercises/{exerciseId}/image [post]
func (h *ExerciseHandler) AttachImage(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req AttachImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	upload, err := h.exerciseService.AttachImage(c.Request.Context(), id, c.Param("exerciseId"), req.ContentType)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}
