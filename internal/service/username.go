package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	usernameMinLen = 2
	usernameMaxLen = 20
)

// usernameCharsRe admits a leading word character followed by word characters
// and dots. Doubled and trailing dots are rejected separately; Go's regexp has
// no lookahead.
var usernameCharsRe = regexp.MustCompile(`^\w[\w.]*$`)

// ValidateUsername returns the list of format violations for a candidate
// username, empty when it is well formed.
func ValidateUsername(username string) []string {
	var msgs []string

	length := utf8.RuneCountInString(username)
	if length < usernameMinLen {
		msgs = append(msgs, fmt.Sprintf("username must be at least %d characters", usernameMinLen))
	}
	if length > usernameMaxLen {
		msgs = append(msgs, fmt.Sprintf("username must be at most %d characters", usernameMaxLen))
	}

	if username != "" && !usernameCharsRe.MatchString(username) {
		msgs = append(msgs, "username must start with a letter or digit and contain no special characters")
	}
	if strings.Contains(username, "..") {
		msgs = append(msgs, "username must not contain consecutive dots")
	}
	if strings.HasSuffix(username, ".") {
		msgs = append(msgs, "username must not end with a dot")
	}

	return msgs
}
