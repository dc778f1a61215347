package domain

import (
	"regexp"
	"strings"
)

// NormalizeHumanName trims leading/trailing whitespace and collapses internal
// whitespace runs. It is used for user name normalization.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// emailPattern is a deliberately simple local@domain.tld check. It is not a
// full RFC 5322 validator; the goal is to reject obvious garbage, not to be
// the source of truth for deliverability.
var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
