package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type eventItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (h HandlerSet) ListEvents(c *gin.Context) {
	events, err := h.events.ListPublished(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list events failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load events."})
		return
	}

	items := make([]eventItem, 0, len(events))
	for _, event := range events {
		items = append(items, eventItem{ID: event.ID, Title: event.Title})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
