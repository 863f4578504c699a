package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"bucket-browser/internal/storage"
)

// Putter is the write side of the storage capability.
type Putter interface {
	Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error
}

// CreateFolder materializes prefix+folderName as a folder by writing a
// zero-byte sentinel object inside it. The folder shows up on the next
// listing of prefix as a common prefix. It returns the folder path.
func CreateFolder(ctx context.Context, putter Putter, prefix, folderName string) (string, error) {
	name := strings.TrimSpace(folderName)
	if name == "" {
		return "", wrap(ErrInvalidName, "folder name is blank", nil)
	}

	folderPath := ChildPrefix(prefix, name)
	if err := putter.Put(ctx, sentinelKey(folderPath), bytes.NewReader(nil), 0, ""); err != nil {
		if errors.Is(err, storage.ErrInvalidKey) {
			return "", wrap(ErrInvalidName, fmt.Sprintf("folder %q", folderPath), err)
		}
		return "", wrap(ErrUploadFailed, fmt.Sprintf("folder %q", folderPath), err)
	}
	return folderPath, nil
}
