package ratelimit

import "strings"

var unlimited = Rule{}

// Match returns the rule for a request: an exact path match wins, then the
// longest matching prefix rule. GET /health is never limited. It returns nil
// when no rule applies.
func Match(path, method string, rules []Rule) *Rule {
	if path == "/health" && method == "GET" {
		return &unlimited
	}

	var best *Rule
	for i := range rules {
		r := &rules[i]
		if r.Method != method {
			continue
		}
		if r.Path == path {
			return r
		}
		if strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			if best == nil || len(r.Path) > len(best.Path) {
				best = r
			}
		}
	}
	return best
}
