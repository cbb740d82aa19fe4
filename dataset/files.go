package dataset

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// openFile opens path, transparently decompressing gzip content.
func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	br := bufio.NewReaderSize(f, 1<<20)
	magic, err := br.Peek(2)
	if err == nil && bytes.Equal(magic, []byte{0x1f, 0x8b}) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("dataset: gzip %s: %w", path, err)
		}
		return &gzipFile{Reader: bufio.NewReaderSize(zr, 1<<20), zr: zr, f: f}, nil
	}
	return &plainFile{Reader: br, f: f}, nil
}

type plainFile struct {
	*bufio.Reader
	f *os.File
}

func (p *plainFile) Close() error { return p.f.Close() }

type gzipFile struct {
	*bufio.Reader
	zr *gzip.Reader
	f  *os.File
}

func (g *gzipFile) Close() error {
	err := g.zr.Close()
	if cerr := g.f.Close(); err == nil {
		err = cerr
	}
	return err
}

func loadFile(cfg Config, read func(r io.Reader, limit int) ([][]float32, error)) (*Dataset, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("dataset: %s source requires a path", cfg.Source)
	}
	r, err := openFile(cfg.Path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	vecs, err := read(r, cfg.Limit)
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", cfg.Path, err)
	}
	return Positional(cfg.Name, vecs), nil
}

func loadIDX(_ context.Context, cfg Config) (*Dataset, error) { return loadFile(cfg, ReadIDX) }

func loadFvecs(_ context.Context, cfg Config) (*Dataset, error) { return loadFile(cfg, ReadFvecs) }

func loadBvecs(_ context.Context, cfg Config) (*Dataset, error) { return loadFile(cfg, ReadBvecs) }
