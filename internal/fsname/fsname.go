// Package fsname makes remote filenames safe to store under a local directory.
package fsname

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxNameLen caps a stored filename, extension included.
const MaxNameLen = 255

const fallbackName = "unnamed_file"

// Sanitize strips any directory component, keeps only alphanumerics plus
// ".-_", substitutes a placeholder for an empty result and caps the length
// while preserving the extension. Idempotent.
func Sanitize(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	safe := b.String()
	if safe == "" {
		return fallbackName
	}
	if len(safe) > MaxNameLen {
		ext := filepath.Ext(safe)
		if len(ext) >= MaxNameLen {
			return safe[:MaxNameLen]
		}
		safe = safe[:MaxNameLen-len(ext)] + ext
	}
	return safe
}

// Resolve picks an unused path for name under dir: name itself, then
// name_1.ext, name_2.ext and so on. The probe is not synchronized, so two
// concurrent sessions resolving the same name can race; accepted limitation.
func Resolve(dir, name string) string {
	p := filepath.Join(dir, name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 1; ; n++ {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return p
		}
		p = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
	}
}
