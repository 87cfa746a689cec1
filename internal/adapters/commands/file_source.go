package commands

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads the command document from a local file.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read command file %q: %w", f.Path, err)
	}
	return b, nil
}
