package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup from user- and model-supplied free text.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *Sanitizer) String(in string) string {
	if in == "" {
		return in
	}
	// StrictPolicy escapes entities; undo that so "R&D" survives a round trip.
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(in)))
}

func (s *Sanitizer) StringPtr(in *string) {
	if in != nil {
		*in = s.String(*in)
	}
}

// Strings sanitizes every element and drops the ones left empty.
func (s *Sanitizer) Strings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = s.String(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
