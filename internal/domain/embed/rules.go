package embed

import "regexp"

// Rule pairs a pattern with the function that turns its match into a result.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Extract func(input string, match []string) string
}

// Rules is evaluated in order; the first rule producing a non-empty result wins.
type Rules []Rule

func (rs Rules) Apply(input string) (string, bool) {
	for _, r := range rs {
		m := r.Pattern.FindStringSubmatch(input)
		if m == nil {
			continue
		}
		if out := r.Extract(input, m); out != "" {
			return out, true
		}
	}
	return "", false
}

func firstGroup(_ string, m []string) string {
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
