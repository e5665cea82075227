package render

import (
	"strings"

	"github.com/matzehuels/umlpad/pkg/errors"
)

// Format is an output image format.
type Format string

// Supported output formats.
const (
	FormatSVG Format = "svg" // vector
	FormatPNG Format = "png" // raster
)

// DefaultFormat is used when no format is requested.
const DefaultFormat = FormatSVG

// Formats lists every supported format in display order.
var Formats = []Format{FormatSVG, FormatPNG}

// ParseFormat validates s and returns the matching format.
// An empty string yields [DefaultFormat].
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultFormat, nil
	case FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be 'svg' or 'png')", s)
	}
}

// FormatFromMIME returns the format for a media type such as "image/png".
func FormatFromMIME(mime string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/svg+xml":
		return FormatSVG, true
	case "image/png":
		return FormatPNG, true
	}
	return "", false
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	return f == FormatSVG || f == FormatPNG
}

// MIMEType returns the media type used when embedding the image.
func (f Format) MIMEType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// Extension returns the file extension including the leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Toggle returns the other format. The terminal view binds it to a key.
func (f Format) Toggle() Format {
	if f == FormatPNG {
		return FormatSVG
	}
	return FormatPNG
}
