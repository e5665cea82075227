package io

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/umlpad/pkg/errors"
	"github.com/matzehuels/umlpad/pkg/render"
)

// DefaultDocumentName is suggested when saving a document with no name.
const DefaultDocumentName = "diagram.puml"

// Operation names used in notices.
const (
	OpOpen   = "Open"
	OpSave   = "Save"
	OpExport = "Export"
)

// Chooser picks file paths. An empty path with a nil error means the user
// cancelled.
type Chooser interface {
	OpenPath(ctx context.Context) (string, error)
	SavePath(ctx context.Context, suggested string) (string, error)
}

// FixedChooser always answers with Path. An empty Path cancels. When saving
// into an existing directory the suggested name is used inside it.
type FixedChooser struct {
	Path string
}

func (c FixedChooser) OpenPath(context.Context) (string, error) { return c.Path, nil }

func (c FixedChooser) SavePath(_ context.Context, suggested string) (string, error) {
	if c.Path == "" || suggested == "" {
		return c.Path, nil
	}
	if fi, err := os.Stat(c.Path); err == nil && fi.IsDir() {
		return filepath.Join(c.Path, filepath.Base(suggested)), nil
	}
	return c.Path, nil
}

var _ Chooser = FixedChooser{}

// FileResult is the outcome of an open, save or export.
type FileResult struct {
	Canceled bool   `json:"canceled"`
	Content  string `json:"content,omitempty"`
	Path     string `json:"path,omitempty"`
}

// Notice formats a user-facing message for a failed operation,
// e.g. "Save failed: permission denied".
func Notice(op string, err error) string {
	return fmt.Sprintf("%s failed: %s", op, errors.UserMessage(err))
}

// DefaultExportName suggests a file name for an exported image,
// e.g. "diagram.png".
func DefaultExportName(format render.Format) string {
	return "diagram" + format.Extension()
}
