package delivery

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"

	"github.com/Vovarama1992/archive/internal/domain"
	"github.com/Vovarama1992/archive/internal/domain/embed"
	"github.com/Vovarama1992/archive/internal/domain/thumbnail"
	"github.com/Vovarama1992/archive/internal/models"
	"github.com/Vovarama1992/archive/internal/ports"
)

// multipart parts beyond this are spooled to disk by net/http.
const multipartMemory = 32 << 20

type ResourceHandler struct {
	resources ports.ResourceService
	maxUpload int64
	log       *logger.ZapLogger
}

func NewResourceHandler(resources ports.ResourceService, maxUploadMB int64, log *logger.ZapLogger) *ResourceHandler {
	return &ResourceHandler{
		resources: resources,
		maxUpload: maxUploadMB << 20,
		log:       log,
	}
}

// resourceView is a resource as the library page renders it.
type resourceView struct {
	models.Resource
	Platform string  `json:"platform"`
	EmbedURL *string `json:"embed_url"`
	TweetURL *string `json:"tweet_url"`
}

func newResourceView(res models.Resource) resourceView {
	v := resourceView{
		Resource: res,
		Platform: embed.PlatformName(&res),
	}
	if res.YouTubeURL != nil {
		if id, ok := embed.ExtractVideoID(*res.YouTubeURL); ok {
			u := embed.VideoEmbedURL(id)
			v.EmbedURL = &u
		}
	}
	if res.TwitterURL != nil {
		if u, ok := embed.ExtractTweetURL(*res.TwitterURL); ok {
			v.TweetURL = &u
		}
	}
	return v
}

// GET /api/resources?category=&q=
func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	list, err := h.resources.List(r.Context(), ports.ListFilter{
		Category: models.Category(q.Get("category")),
		Query:    q.Get("q"),
	})
	if err != nil {
		h.writeError(w, "list resources", err)
		return
	}

	views := make([]resourceView, 0, len(list))
	for _, res := range list {
		views = append(views, newResourceView(res))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(views)
}

// POST /api/resources (multipart)
func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	in := ports.CreateResourceInput{
		Title:        r.FormValue("title"),
		Author:       r.FormValue("author"),
		Category:     models.Category(r.FormValue("category")),
		YouTubeURL:   r.FormValue("youtube_url"),
		TwitterURL:   r.FormValue("twitter_url"),
		InstagramURL: r.FormValue("instagram_url"),
		TikTokURL:    r.FormValue("tiktok_url"),
		RoomID:       r.FormValue("roomID"),
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		in.FileName = header.Filename
		in.File, err = io.ReadAll(file)
		if err != nil {
			http.Error(w, "read file: "+err.Error(), http.StatusBadRequest)
			return
		}
	case !errors.Is(err, http.ErrMissingFile):
		http.Error(w, "invalid file: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.resources.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, "create resource", err)
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "resource created",
		Fields: map[string]any{
			"id":       res.ID,
			"category": res.Category,
		},
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(newResourceView(*res))
}

// DELETE /api/resources/{id}
func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.resources.Delete(r.Context(), id); err != nil {
		h.writeError(w, "delete resource", err)
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "resource deleted",
		Fields:  map[string]any{"id": id},
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"id":      id,
	})
}

func (h *ResourceHandler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrResourceNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, thumbnail.ErrParse):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.log.Log(logger.LogEntry{
			Level:   "error",
			Message: op + " failed",
			Error:   err,
		})
		http.Error(w, op+" failed", http.StatusInternalServerError)
	}
}
