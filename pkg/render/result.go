package render

import (
	"encoding/base64"
	"strings"
)

// FailureKind separates failures the user can fix in the diagram from
// failures of the rendering machinery itself.
type FailureKind string

// Failure kinds.
const (
	FailureMissingDependency FailureKind = "missing_dependency"
	FailureProcess           FailureKind = "process"
	FailureTimeout           FailureKind = "timeout"
	FailureDiagram           FailureKind = "diagram"
)

// Failure describes why a render produced no image.
type Failure struct {
	Kind FailureKind `json:"kind"`

	// Line is the 1-based source line reported by the engine; 0 means unknown.
	Line int `json:"line"`

	ShortMessage string `json:"shortMessage"`

	// Details carries the full, unfiltered diagnostic text.
	Details string `json:"details"`
}

// Result is the outcome of one render request: either a success carrying an
// image or a failure. The zero Result is the empty state (nothing rendered).
type Result struct {
	Format  Format
	Image   []byte
	Failure *Failure
}

// Succeeded builds a success result.
func Succeeded(format Format, image []byte) Result {
	return Result{Format: format, Image: image}
}

// Failed builds a failure result.
func Failed(format Format, f Failure) Result {
	return Result{Format: format, Failure: &f}
}

// OK reports whether r carries an image.
func (r Result) OK() bool {
	return r.Failure == nil && len(r.Image) > 0
}

// Empty reports whether r is the empty state.
func (r Result) Empty() bool {
	return r.Failure == nil && len(r.Image) == 0
}

// DataURI returns the image as a self-describing embeddable payload, or ""
// when r carries no image.
func (r Result) DataURI() string {
	if !r.OK() {
		return ""
	}
	return EncodeDataURI(r.Format, r.Image)
}

// EncodeDataURI encodes image bytes as a base64 data URI.
func EncodeDataURI(format Format, data []byte) string {
	var b strings.Builder
	b.WriteString("data:")
	b.WriteString(format.MIMEType())
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// Response is the JSON shape of a render result consumed by presentation
// layers.
type Response struct {
	OK     bool     `json:"ok"`
	Format Format   `json:"format,omitempty"`
	Data   string   `json:"data,omitempty"`
	Error  *Failure `json:"error,omitempty"`
}

// Response converts r to its wire form. The empty state is reported as
// ok=false with neither data nor error.
func (r Result) Response() Response {
	if r.OK() {
		return Response{OK: true, Format: r.Format, Data: r.DataURI()}
	}
	return Response{OK: false, Format: r.Format, Error: r.Failure}
}
