// Package toolchain tells apart files written by balkit, files written by the
// incompatible Tailwind scaffolding, and files of unknown origin.
//
// Classification is a plain substring match against a fixed marker table per
// file kind. Incompatible markers take precedence, so a file mixing both
// marker sets is treated as needing remediation.
package toolchain

import "strings"

// Toolchain is the origin a file is attributed to.
type Toolchain int

const (
	Unknown Toolchain = iota
	BalKit
	Incompatible
)

func (t Toolchain) String() string {
	switch t {
	case BalKit:
		return "balkit"
	case Incompatible:
		return "incompatible"
	default:
		return "unknown"
	}
}

// Profile is the marker table for one kind of host file.
type Profile struct {
	Name         string
	Incompatible []string
	Native       []string
}

// Native marker shared by every profile.
const SassEntry = "resources/sass/app.scss"

// Incompatible stylesheet entry point.
const CSSEntry = "resources/css/app.css"

var (
	// Layout applies to resources/views/layouts/app.blade.php.
	Layout = Profile{
		Name:         "layout",
		Incompatible: []string{CSSEntry, "font-sans antialiased", "min-h-screen bg-gray-100"},
		Native:       []string{SassEntry},
	}

	// Page applies to resources/views/welcome.blade.php.
	Page = Profile{
		Name:         "page",
		Incompatible: []string{CSSEntry, "tailwindcss"},
		Native:       []string{SassEntry},
	}

	// Bundler applies to vite.config.js.
	Bundler = Profile{
		Name:         "bundler",
		Incompatible: []string{CSSEntry},
		Native:       []string{SassEntry},
	}
)

// Classify attributes content to a toolchain using the profile's markers.
func Classify(content []byte, profile Profile) Toolchain {
	if _, ok := FirstMarker(content, profile.Incompatible); ok {
		return Incompatible
	}
	if _, ok := FirstMarker(content, profile.Native); ok {
		return BalKit
	}
	return Unknown
}

// FirstMarker returns the first marker found in content.
func FirstMarker(content []byte, markers []string) (string, bool) {
	text := string(content)
	for _, m := range markers {
		if strings.Contains(text, m) {
			return m, true
		}
	}
	return "", false
}

// IncompatibleMarker returns the incompatible marker that matched, if any.
func (p Profile) IncompatibleMarker(content []byte) (string, bool) {
	return FirstMarker(content, p.Incompatible)
}
