package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ajmorris/photo-booth-events/internal/models"
	"github.com/ajmorris/photo-booth-events/internal/repository"
)

type photoItem struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Status    string    `json:"status"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

type listResponse struct {
	Items      []photoItem `json:"items"`
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
}

// Gallery is the public read surface: approved photos only, regardless of
// what the query string asks for.
func (h HandlerSet) Gallery(c *gin.Context) {
	filter := listFilterFromQuery(c)
	approved := models.PhotoStatusApproved
	filter.Status = &approved

	photos, totalPages, err := h.moderation.List(c.Request.Context(), filter)
	if err != nil {
		h.rejectJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, h.buildListResponse(photos, filter.Page, totalPages))
}

func (h HandlerSet) buildListResponse(photos []models.Photo, page, totalPages int) listResponse {
	items := make([]photoItem, 0, len(photos))
	for _, photo := range photos {
		items = append(items, photoItem{
			ID:        photo.ID,
			EventID:   photo.EventID,
			Status:    string(photo.Status),
			ImageURL:  h.moderation.ImageURL(photo),
			CreatedAt: photo.CreatedAt,
		})
	}
	return listResponse{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
	}
}

func listFilterFromQuery(c *gin.Context) repository.ListFilter {
	filter := repository.ListFilter{
		EventID: c.Query("event_id"),
		Page:    1,
		PerPage: 20,
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if perPage, err := strconv.Atoi(c.Query("per_page")); err == nil && perPage > 0 && perPage <= 100 {
		filter.PerPage = perPage
	}
	if c.Query("order") == "asc" {
		filter.OrderAsc = true
	}

	return filter
}
