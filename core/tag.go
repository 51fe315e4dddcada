package core

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
)

const maxTagLen = 28

var (
	tagInvalid  = regexp.MustCompile(`[^a-z0-9_-]+`)
	tagCollapse = regexp.MustCompile(`_+`)
)

// SafeTag lowercases a free-text client tag and reduces it to [a-z0-9_-],
// collapsing runs of underscores. Empty or fully-stripped input falls back to
// "client". The result is at most 28 characters and ends up embedded in
// generated filenames.
func SafeTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = tagInvalid.ReplaceAllString(s, "_")
	s = tagCollapse.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		s = "client"
	}
	if len(s) > maxTagLen {
		s = s[:maxTagLen]
	}
	return s
}

// NewProofID returns a fresh proof identifier of the form JNB-XXXXXXXX where
// X is an uppercase hex digit. Identifiers are random, not content-derived,
// so repeated saves of the same design never collide.
func NewProofID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return "JNB-" + strings.ToUpper(hex.EncodeToString(b))
}
