package delivery

import (
	"encoding/json"
	"net/http"

	"github.com/Vovarama1992/archive/internal/domain/embed"
)

const invalidURLMessage = "invalid URL"

type EmbedHandler struct{}

func NewEmbedHandler() *EmbedHandler { return &EmbedHandler{} }

// GET /api/embed?url=
func (h *EmbedHandler) Video(w http.ResponseWriter, r *http.Request) {
	id, ok := embed.ExtractVideoID(r.URL.Query().Get("url"))
	if !ok {
		http.Error(w, invalidURLMessage, http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"video_id":  id,
		"embed_url": embed.VideoEmbedURL(id),
	})
}

// GET /api/embed/tweet?url=
func (h *EmbedHandler) Tweet(w http.ResponseWriter, r *http.Request) {
	u, ok := embed.ExtractTweetURL(r.URL.Query().Get("url"))
	if !ok {
		http.Error(w, invalidURLMessage, http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"tweet_url": u,
	})
}
