package io

import (
	"context"
	"os"

	"github.com/matzehuels/umlpad/pkg/errors"
)

// Open asks chooser for a document and reads it.
func Open(ctx context.Context, chooser Chooser) (FileResult, error) {
	path, err := chooser.OpenPath(ctx)
	if err != nil {
		return FileResult{}, errors.Wrap(errors.ErrCodeFileIO, err, "choose file")
	}
	if path == "" {
		return FileResult{Canceled: true}, nil
	}

	content, err := ReadSource(path)
	if err != nil {
		return FileResult{}, err
	}
	return FileResult{Content: content, Path: path}, nil
}

// ReadSource reads UTF-8 diagram source from path.
func ReadSource(path string) (string, error) {
	if err := errors.ValidatePath(path); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New(errors.ErrCodeFileNotFound, "file not found: %s", path)
		}
		return "", errors.Wrap(errors.ErrCodeFileIO, err, "read %s", path)
	}
	content := string(data)
	if err := errors.ValidateSource(content); err != nil {
		return "", err
	}
	return content, nil
}
