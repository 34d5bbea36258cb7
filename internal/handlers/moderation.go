package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajmorris/photo-booth-events/internal/models"
	"github.com/ajmorris/photo-booth-events/internal/security"
	"github.com/ajmorris/photo-booth-events/internal/service"
)

func moderationContext(action service.ModerationAction) string {
	return "moderate:" + string(action)
}

type moderatorLoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) ModeratorLogin(c *gin.Context) {
	var req moderatorLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := security.VerifyPassword(req.Password, h.cfg.Security.ModeratorPassword)
	if err != nil || !ok || req.Login != h.cfg.Security.ModeratorLogin {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	token, err := security.GenerateModeratorToken(h.cfg.Security.JWTSecret, req.Login, h.cfg.Security.JWTTTL)
	if err != nil {
		h.log.Error().Err(err).Msg("generate moderator token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// IssueModerationToken hands the admin page a single-use nonce bound to one
// specific action, so a followable link can never mutate state by itself.
func (h HandlerSet) IssueModerationToken(c *gin.Context) {
	action := service.ModerationAction(c.Query("action"))
	switch action {
	case service.ActionApprove, service.ActionUnapprove, service.ActionDelete:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action."})
		return
	}

	nonce, err := h.nonces.Issue(c.Request.Context(), moderationContext(action))
	if err != nil {
		h.log.Error().Err(err).Msg("issue moderation nonce failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not issue token."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"nonce": nonce})
}

func (h HandlerSet) verifyActionNonce(c *gin.Context, action service.ModerationAction) bool {
	nonce := c.GetHeader("X-Booth-Nonce")
	if nonce == "" {
		nonce = c.PostForm("nonce")
	}
	if err := h.nonces.Verify(c.Request.Context(), moderationContext(action), nonce); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Security check failed."})
		return false
	}
	return true
}

func (h HandlerSet) ApprovePhoto(c *gin.Context) {
	if !h.verifyActionNonce(c, service.ActionApprove) {
		return
	}
	h.setStatus(c, models.PhotoStatusApproved)
}

func (h HandlerSet) UnapprovePhoto(c *gin.Context) {
	if !h.verifyActionNonce(c, service.ActionUnapprove) {
		return
	}
	h.setStatus(c, models.PhotoStatusPending)
}

func (h HandlerSet) setStatus(c *gin.Context, status models.PhotoStatus) {
	photoID := c.Param("id")
	if err := h.moderation.SetStatus(c.Request.Context(), photoID, status); err != nil {
		h.rejectJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photo_id": photoID, "status": string(status)})
}

func (h HandlerSet) DeletePhoto(c *gin.Context) {
	if !h.verifyActionNonce(c, service.ActionDelete) {
		return
	}

	photoID := c.Param("id")
	if err := h.moderation.Delete(c.Request.Context(), photoID); err != nil {
		h.rejectJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photo_id": photoID, "deleted": true})
}

type bulkRequest struct {
	Action   string   `json:"action" binding:"required"`
	PhotoIDs []string `json:"photo_ids" binding:"required"`
}

func (h HandlerSet) BulkModerate(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action := service.ModerationAction(req.Action)
	if !h.verifyActionNonce(c, action) {
		return
	}

	updated, err := h.moderation.BulkApply(c.Request.Context(), action, req.PhotoIDs)
	if err != nil {
		h.rejectJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// ModerationQueue lists photos for the review table; unlike the public
// gallery it can see any status.
func (h HandlerSet) ModerationQueue(c *gin.Context) {
	filter := listFilterFromQuery(c)

	if raw := c.Query("status"); raw != "" {
		status := models.PhotoStatus(raw)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status."})
			return
		}
		filter.Status = &status
	}

	photos, totalPages, err := h.moderation.List(c.Request.Context(), filter)
	if err != nil {
		h.rejectJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, h.buildListResponse(photos, filter.Page, totalPages))
}
