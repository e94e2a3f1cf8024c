package embed

import (
	"strings"

	"github.com/Vovarama1992/archive/internal/models"
)

func PlatformName(r *models.Resource) string {
	switch {
	case set(r.YouTubeURL):
		return "YOUTUBE"
	case set(r.TwitterURL):
		return "TWITTER/X"
	case set(r.InstagramURL):
		return "INSTAGRAM"
	case set(r.TikTokURL):
		return "TIKTOK"
	}
	return strings.ToUpper(string(r.Category))
}

func set(s *string) bool { return s != nil && *s != "" }
