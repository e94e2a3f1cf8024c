package embed

import (
	"regexp"
	"strings"
)

// The widget script needs the canonical URL, not just the id.
func canonicalTweetURL(input string, _ []string) string {
	if i := strings.Index(input, "?"); i >= 0 {
		return input[:i]
	}
	return input
}

var tweetRules = Rules{
	{Name: "status", Pattern: regexp.MustCompile(`(?:twitter\.com|x\.com)/([^/]+)/status/(\d+)`), Extract: canonicalTweetURL},
	{Name: "spaces", Pattern: regexp.MustCompile(`(?:twitter\.com|x\.com)/i/spaces/([a-zA-Z0-9]+)`), Extract: canonicalTweetURL},
}

// ExtractTweetURL recognises X/Twitter status and spaces links and returns
// the link with its query string removed.
func ExtractTweetURL(url string) (string, bool) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", false
	}
	return tweetRules.Apply(url)
}
