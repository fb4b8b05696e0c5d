// Package toolutil provides small input helpers shared by the MCP tools.
package toolutil

import (
	"strings"

	"github.com/anatolykoptev/go_ytplay/internal/engine"
)

// NormMediaType normalises a media_type field: trimmed, lower-cased,
// empty string → "generic".
func NormMediaType(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return string(engine.MediaGeneric)
	}
	return s
}

// BoolOr dereferences an optional boolean field, returning def when unset.
func BoolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
