package embed

import (
	"regexp"
	"strings"
)

const bareVideoIDLen = 11

var youtubeRules = Rules{
	{Name: "watch", Pattern: regexp.MustCompile(`youtube\.com/watch\?v=([^&?/]+)`), Extract: firstGroup},
	{Name: "short", Pattern: regexp.MustCompile(`youtu\.be/([^&?/]+)`), Extract: firstGroup},
	{Name: "embed", Pattern: regexp.MustCompile(`youtube\.com/embed/([^&?/]+)`), Extract: firstGroup},
	{Name: "query", Pattern: regexp.MustCompile(`youtube\.com/.*[?&]v=([^&]+)`), Extract: firstGroup},
}

// ExtractVideoID returns the YouTube video id carried by url.
// A bare 11-character string without '/' or '.' is taken as an id as is.
func ExtractVideoID(url string) (string, bool) {
	if url == "" {
		return "", false
	}
	if len(url) == bareVideoIDLen && !strings.ContainsAny(url, "/.") {
		return url, true
	}
	return youtubeRules.Apply(url)
}

func VideoEmbedURL(id string) string {
	return "https://www.youtube.com/embed/" + id + "?color=white&modestbranding=1&rel=0"
}
