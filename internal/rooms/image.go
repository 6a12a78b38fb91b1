package rooms

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stayvista/backend/pkg/response"
)

// MaxImageSize is the largest room image accepted (5MB).
const MaxImageSize = 5 * 1024 * 1024

// ImageStore uploads room images and returns their public URL.
type ImageStore interface {
	UploadRoomImage(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// imageContentType resolves an allowed content type from the header or the extension.
func imageContentType(contentType, filename string) (string, bool) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	for _, allowed := range imageTypes {
		if ct == allowed {
			return ct, true
		}
	}
	if ct, ok := imageTypes[strings.ToLower(path.Ext(filename))]; ok {
		return ct, true
	}
	return "", false
}

// ImageKey returns the object key for an uploaded room image: rooms/{host}/{uuid}{ext}.
func ImageKey(hostEmail, filename string) string {
	return path.Join("rooms", hostEmail, uuid.NewString()+strings.ToLower(path.Ext(filename)))
}

// ImageHandler handles POST /room/image.
type ImageHandler struct {
	store  ImageStore
	logger *zap.Logger
}

// NewImageHandler creates an image upload handler. A nil store disables uploads.
func NewImageHandler(store ImageStore, logger *zap.Logger) *ImageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageHandler{store: store, logger: logger}
}

// Upload accepts a multipart "image" field and returns {"url": ...}.
func (h *ImageHandler) Upload(c *gin.Context) {
	email, ok := caller(c)
	if !ok {
		return
	}
	if h.store == nil {
		response.ServiceUnavailable(c, "image storage not configured")
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image file is required")
		return
	}
	if fh.Size > MaxImageSize {
		response.BadRequest(c, fmt.Sprintf("image exceeds %d bytes", MaxImageSize))
		return
	}
	ct, ok := imageContentType(fh.Header.Get("Content-Type"), fh.Filename)
	if !ok {
		response.BadRequest(c, "unsupported image type")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "unreadable image")
		return
	}
	defer f.Close()

	url, err := h.store.UploadRoomImage(c.Request.Context(), ImageKey(email, fh.Filename), ct, f, fh.Size)
	if err != nil {
		h.logger.Error("room image upload failed", zap.Error(err), zap.String("host", email))
		response.BadGateway(c, "image upload failed")
		return
	}
	response.Created(c, gin.H{"url": url})
}
