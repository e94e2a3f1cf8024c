package delivery

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/Vovarama1992/archive/internal/ports"
)

// LoginLimit caps login attempts per client IP. Rate 0 disables it.
type LoginLimit struct {
	Rate   int
	Window time.Duration
}

func (l LoginLimit) middleware() func(http.Handler) http.Handler {
	if l.Rate <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(l.Rate, l.Window)
}

func RegisterRoutes(
	r chi.Router,
	auth ports.AuthService,
	limit LoginLimit,
	hAuth *AuthHandler,
	hRes *ResourceHandler,
	hEmbed *EmbedHandler,
	hThumb *ThumbnailHandler,
) {
	// login
	r.With(limit.middleware()).Post("/api/auth", hAuth.Login)

	// public
	r.Get("/api/resources", hRes.List)
	r.Get("/api/embed", hEmbed.Video)
	r.Get("/api/embed/tweet", hEmbed.Tweet)

	// admin
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(auth))

		r.Post("/api/resources", hRes.Create)
		r.Delete("/api/resources/{id}", hRes.Delete)
		r.Post("/api/thumbnail", hThumb.Render)
	})
}
