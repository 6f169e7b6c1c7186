package scorm

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/jonathan/course-navigator/internal/fetch"
)

// Loader retrieves raw manifest bytes from a location.
type Loader interface {
	Load(ctx context.Context, location string) ([]byte, error)
}

// FileLoader reads local paths and file:// URLs from disk and fetches http(s) URLs.
type FileLoader struct {
	Fetch *fetch.Options // nil uses fetch.DefaultOptions
}

// Load implements Loader. It performs no caching.
func (l FileLoader) Load(ctx context.Context, location string) ([]byte, error) {
	if fetch.IsRemote(location) {
		result, err := fetch.URL(ctx, location, l.Fetch)
		if err != nil {
			return nil, err
		}
		return result.Body, nil
	}

	path := location
	if strings.HasPrefix(location, "file://") {
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("invalid file URL: %w", err)
		}
		path = u.Path
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}
	return data, nil
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, location string) ([]byte, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, location string) ([]byte, error) {
	return f(ctx, location)
}
