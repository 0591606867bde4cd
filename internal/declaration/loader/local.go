package loader

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

func readFile(_ context.Context, path string) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return readLimited(f)
}

func fsReader(files fs.FS) fetcher {
	return func(_ context.Context, name string) ([]byte, error) {
		if files == nil {
			return nil, errors.New("no fs.FS configured")
		}
		f, err := files.Open(name)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = f.Close()
		}()
		return readLimited(f)
	}
}

// readLimited reads one byte past maxDocumentSize so oversized documents are
// detected without reading them whole.
func readLimited(r io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
}
