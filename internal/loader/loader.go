// Package loader fetches schema documents from files, fs.FS entries, or
// HTTP locations and parses them into the shared schema representation.
package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/goliatone/go-formedit/pkg/schema"
)

// Options configure a Loader. HTTP fetching stays disabled unless a client
// is supplied or AllowHTTP is set.
type Options struct {
	FileSystem     fs.FS
	HTTPClient     *http.Client
	AllowHTTP      bool
	RequestTimeout time.Duration
}

// Loader resolves schema sources through file, fs.FS, or HTTP strategies.
type Loader struct {
	fs      fs.FS
	http    *http.Client
	timeout time.Duration
}

// New builds a Loader from options.
func New(options Options) *Loader {
	client := options.HTTPClient
	if client == nil && options.AllowHTTP {
		client = &http.Client{Timeout: options.RequestTimeout}
	}
	return &Loader{
		fs:      options.FileSystem,
		http:    client,
		timeout: options.RequestTimeout,
	}
}

// Load fetches the raw document behind a source.
func (l *Loader) Load(ctx context.Context, src schema.Source) ([]byte, error) {
	if src == nil {
		return nil, errors.New("loader: source is nil")
	}
	switch src.Kind() {
	case schema.SourceKindFile:
		return loadFile(ctx, src.Location())
	case schema.SourceKindFS:
		return loadFromFS(ctx, l.fs, src.Location())
	case schema.SourceKindURL:
		if l.http == nil {
			return nil, errors.New("loader: http support disabled")
		}
		return loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		return nil, errors.New("loader: unsupported source kind")
	}
}

// LoadSchema fetches and parses the document behind a source.
func (l *Loader) LoadSchema(ctx context.Context, src schema.Source) (schema.Schema, error) {
	raw, err := l.Load(ctx, src)
	if err != nil {
		return schema.Schema{}, err
	}
	return schema.ParseBytes(raw)
}

func loadFile(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("loader: file path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	if files == nil {
		return nil, errors.New("loader: fs is nil")
	}
	if name == "" {
		return nil, errors.New("loader: fs path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return fs.ReadFile(files, name)
}
