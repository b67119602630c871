package api

import (
	"net/http"
	"strconv"

	"alcyxob/workout-tracker/internal/catalog"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// StatsHandler serves derived statistics. Store failures on the per-exercise
// endpoints degrade to empty stats so a card never fails to render.
type StatsHandler struct {
	statsService service.StatsService
}

func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) GlobalStats(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	stats, err := h.statsService.GlobalStats(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *StatsHandler) ExerciseStats(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	// The service logs the failure and hands back empty stats.
	stats, _ := h.statsService.ExerciseStats(c.Request.Context(), id, c.Param("exerciseId"))
	c.JSON(http.StatusOK, stats)
}

// ExerciseStatsBatch returns stats keyed by exercise id for ?ids=a,b,c.
func (h *StatsHandler) ExerciseStatsBatch(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	ids := catalog.SplitTags(c.Query("ids"))
	stats, _ := h.statsService.ExerciseStatsBatch(c.Request.Context(), id, ids)
	if stats == nil {
		stats = map[string]domain.ExerciseStats{}
	}
	c.JSON(http.StatusOK, stats)
}

func (h *StatsHandler) RecentExercises(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	limit := service.DefaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			abortWithError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	recent, err := h.statsService.RecentExercises(c.Request.Context(), id, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, recent)
}
