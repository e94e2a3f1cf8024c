package delivery

import (
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/archive/internal/domain/thumbnail"
	"github.com/Vovarama1992/archive/internal/ports"
)

type ThumbnailHandler struct {
	thumbs    ports.ThumbnailGenerator
	scale     float64
	maxUpload int64
	log       *logger.ZapLogger
}

func NewThumbnailHandler(thumbs ports.ThumbnailGenerator, scale float64, maxUploadMB int64, log *logger.ZapLogger) *ThumbnailHandler {
	return &ThumbnailHandler{
		thumbs:    thumbs,
		scale:     scale,
		maxUpload: maxUploadMB << 20,
		log:       log,
	}
}

// POST /api/thumbnail?scale= with a raw PDF body.
func (h *ThumbnailHandler) Render(w http.ResponseWriter, r *http.Request) {
	scale := h.scale
	if s := r.URL.Query().Get("scale"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			http.Error(w, "invalid scale", http.StatusBadRequest)
			return
		}
		scale = v
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUpload))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	img, err := h.thumbs.Generate(r.Context(), body, scale)
	switch {
	case errors.Is(err, thumbnail.ErrInvalidScale):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, thumbnail.ErrParse):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		h.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "thumbnail failed",
			Error:   err,
		})
		http.Error(w, "thumbnail failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	_, _ = w.Write(img)
}
