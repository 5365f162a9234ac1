package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/roomcast/internal/api/http/converter"
	"github.com/immxrtalbeast/roomcast/internal/service"
)

type UploadController struct {
	uploads  service.UploadInteractor
	log      *slog.Logger
	maxBytes int64
}

func NewUploadController(uploads service.UploadInteractor, log *slog.Logger, maxBytes int64) *UploadController {
	if log == nil {
		log = slog.Default()
	}
	return &UploadController{uploads: uploads, log: log, maxBytes: maxBytes}
}

// Upload authenticates against the room secret, stores the file and
// lets the room's live connections know a recording is ready.
func (c *UploadController) Upload(ctx *gin.Context) {
	room := ctx.Query("room")
	password := ctx.Query("password")
	if room == "" || password == "" {
		ctx.String(http.StatusBadRequest, "room & password required")
		return
	}

	file, err := ctx.FormFile("video")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "video file is required"})
		return
	}
	if c.maxBytes > 0 && file.Size > c.maxBytes {
		ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	rec, err := c.uploads.Save(ctx.Request.Context(), room, password, file.Filename, src)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadUnauthorized):
			ctx.String(http.StatusForbidden, "Invalid room or password")
		case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrBadFileName):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "filename": rec.StoredName})
}

// Files lists stored file names for a room, newest first.
func (c *UploadController) Files(ctx *gin.Context) {
	room := ctx.Query("room")
	if room == "" {
		ctx.String(http.StatusBadRequest, "room required")
		return
	}

	recs, err := c.uploads.List(ctx.Request.Context(), room)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	names := make([]string, 0, len(recs))
	for _, rec := range recs {
		names = append(names, rec.StoredName)
	}
	ctx.JSON(http.StatusOK, names)
}

// Download serves a stored recording by its exact name.
func (c *UploadController) Download(ctx *gin.Context) {
	path, err := c.uploads.Resolve(ctx.Param("name"))
	if err != nil {
		if errors.Is(err, service.ErrBadFileName) {
			ctx.String(http.StatusBadRequest, "bad file name")
			return
		}
		ctx.String(http.StatusNotFound, "Not found")
		return
	}
	ctx.File(path)
}

// Recordings returns full recording metadata for a room.
func (c *UploadController) Recordings(ctx *gin.Context) {
	recs, err := c.uploads.List(ctx.Request.Context(), ctx.Param("room"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"recordings": converter.RecordingsToApi(recs)})
}
