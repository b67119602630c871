package api

import (
	"errors"
	"net/http"

	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// alreadySharedMessage is shown when the recipient already has the program.
const alreadySharedMessage = "This program is already shared with this user"

type ShareHandler struct {
	shareService service.ShareService
}

func NewShareHandler(shareService service.ShareService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

type ShareProgramRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// ListShares returns shares the caller created or received, newest first.
func (h *ShareHandler) ListShares(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	shares, err := h.shareService.List(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, shares)
}

// ShareProgram godoc
// @Summary Share a program with another user
// @Tags Shares
// @Accept json
// @Produce json
// @Param programId path string true "Program ID"
// @Param body body ShareProgramRequest true "Recipient"
// @Success 201 {object} domain.ProgramShare
// @Failure 409 {object} gin.H "Already shared with this user"
// @Router /programs/{programId}/shares [post]
func (h *ShareHandler) ShareProgram(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req ShareProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	share, err := h.shareService.Share(c.Request.Context(), id, c.Param("programId"), req.UserID)
	if errors.Is(err, service.ErrAlreadyShared) {
		abortWithError(c, http.StatusConflict, alreadySharedMessage)
		return
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, share)
}

func (h *ShareHandler) DeleteShare(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	if err := h.shareService.Unshare(c.Request.Context(), id, c.Param("shareId")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
