package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajmorris/photo-booth-events/internal/media/sniffer"
	"github.com/ajmorris/photo-booth-events/internal/service"
)

func uploadContext(eventID string) string {
	return "upload:" + eventID
}

// IssueUploadToken hands the page a single-use origin nonce bound to the
// event it is about to submit to.
func (h HandlerSet) IssueUploadToken(c *gin.Context) {
	eventID := c.Query("event_id")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event ID is required."})
		return
	}

	nonce, err := h.nonces.Issue(c.Request.Context(), uploadContext(eventID))
	if err != nil {
		h.log.Error().Err(err).Msg("issue upload nonce failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not issue token."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"nonce": nonce})
}

type submitPhotoResponse struct {
	PhotoID  string `json:"photo_id"`
	Status   string `json:"status"`
	ImageURL string `json:"image_url,omitempty"`
}

// SubmitPhoto is the public upload boundary. All validation, including the
// origin-token check, happens inside the upload service in a fixed order;
// this handler only does transport framing.
func (h HandlerSet) SubmitPhoto(c *gin.Context) {
	nonce := c.PostForm("nonce")
	if nonce == "" {
		nonce = c.GetHeader("X-Booth-Nonce")
	}
	eventID := c.PostForm("event_id")

	var (
		fileBytes    []byte
		declaredMIME string
		declaredSize int64
	)

	file, header, err := c.Request.FormFile("photo")
	if err == nil {
		defer file.Close()
		fileBytes, err = io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file."})
			return
		}
		declaredMIME = sniffer.MimeTypeFromHTTP(http.Header(header.Header))
		declaredSize = header.Size
	}

	result, err := h.upload.Submit(c.Request.Context(), service.SubmitInput{
		Nonce:        nonce,
		NonceContext: uploadContext(eventID),
		EventID:      eventID,
		File:         fileBytes,
		DeclaredMIME: declaredMIME,
		DeclaredSize: declaredSize,
	})
	if err != nil {
		h.rejectJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, submitPhotoResponse{
		PhotoID:  result.PhotoID,
		Status:   string(result.Status),
		ImageURL: result.ImageURL,
	})
}

// rejectJSON maps service rejections to transport statuses. Anything that is
// not a structured rejection is a bug and reported generically.
func (h HandlerSet) rejectJSON(c *gin.Context, err error) {
	rejection, ok := service.AsRejection(err)
	if !ok {
		h.log.Error().Err(err).Msg("unstructured service error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	status := http.StatusBadRequest
	switch rejection.Code {
	case service.RejectAuthorization:
		status = http.StatusUnauthorized
	case service.RejectNotFound:
		status = http.StatusNotFound
	case service.RejectStorage:
		status = http.StatusInternalServerError
	}

	c.JSON(status, gin.H{"error": rejection.Message})
}
