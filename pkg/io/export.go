package io

import (
	"context"
	"encoding/base64"
	"net/url"
	"os"
	"strings"

	"github.com/matzehuels/umlpad/pkg/errors"
	"github.com/matzehuels/umlpad/pkg/render"
)

// Save writes content to currentPath. Without a current path it behaves
// like SaveAs with the default document name.
func Save(ctx context.Context, chooser Chooser, content, currentPath string) (FileResult, error) {
	if currentPath == "" {
		return SaveAs(ctx, chooser, content, DefaultDocumentName)
	}
	if err := writeFile(currentPath, []byte(content)); err != nil {
		return FileResult{}, err
	}
	return FileResult{Path: currentPath}, nil
}

// SaveAs asks chooser for a path and writes content there.
func SaveAs(ctx context.Context, chooser Chooser, content, suggested string) (FileResult, error) {
	if suggested == "" {
		suggested = DefaultDocumentName
	}
	path, err := chooser.SavePath(ctx, suggested)
	if err != nil {
		return FileResult{}, errors.Wrap(errors.ErrCodeFileIO, err, "choose file")
	}
	if path == "" {
		return FileResult{Canceled: true}, nil
	}
	if err := writeFile(path, []byte(content)); err != nil {
		return FileResult{}, err
	}
	return FileResult{Path: path}, nil
}

// Export decodes payload and writes the image to a path chosen by chooser.
func Export(ctx context.Context, chooser Chooser, payload string, format render.Format, suggested string) (FileResult, error) {
	if !format.Valid() {
		return FileResult{}, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
	}
	data, err := DecodeDataURI(payload)
	if err != nil {
		return FileResult{}, err
	}
	if suggested == "" {
		suggested = DefaultExportName(format)
	}

	path, err := chooser.SavePath(ctx, suggested)
	if err != nil {
		return FileResult{}, errors.Wrap(errors.ErrCodeFileIO, err, "choose file")
	}
	if path == "" {
		return FileResult{Canceled: true}, nil
	}
	if err := writeFile(path, data); err != nil {
		return FileResult{}, err
	}
	return FileResult{Path: path}, nil
}

// DecodeDataURI returns the bytes carried by a data URI
// ("data:image/png;base64,...") or by bare base64 text.
func DecodeDataURI(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty export payload")
	}

	body, isBase64 := payload, true
	if strings.HasPrefix(payload, "data:") {
		header, rest, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "malformed data URI")
		}
		body = rest
		isBase64 = strings.HasSuffix(header, ";base64")
	}

	if !isBase64 {
		text, err := url.PathUnescape(body)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode data URI")
		}
		return []byte(text), nil
	}

	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode base64 payload")
	}
	return data, nil
}

// DataURIFormat reports the image format named by a data URI header, e.g.
// "data:image/png;base64,..." yields png. Bare base64 has no format.
func DataURIFormat(payload string) (render.Format, bool) {
	payload = strings.TrimSpace(payload)
	if !strings.HasPrefix(payload, "data:") {
		return "", false
	}
	header, _, ok := strings.Cut(strings.TrimPrefix(payload, "data:"), ",")
	if !ok {
		return "", false
	}
	mime, _, _ := strings.Cut(header, ";")
	return render.FormatFromMIME(mime)
}

func writeFile(path string, data []byte) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeFileIO, err, "write %s", path)
	}
	return nil
}
