package validate

import (
	"regexp"
	"strings"
)

var (
	reQ  = regexp.MustCompile(`^[\p{L}0-9 _'#.\-]{1,50}$`)
	reID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// Q validates a search query: trims, enforces allowed characters and max length.
// An empty query is valid and matches everything.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// Qty validates a sale quantity.
func Qty(n int) bool { return n >= 1 && n <= 999 }

// ID validates a resource identifier from a path (table/session/item/order ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Window validates a record listing window; empty means all.
func Window(s string) (string, bool) {
	switch s = strings.TrimSpace(s); s {
	case "":
		return "all", true
	case "all", "today", "yesterday", "week", "month", "lastMonth":
		return s, true
	}
	return "", false
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 40 {
		return "", false
	}
	return s, true
}
