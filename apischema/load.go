package apischema

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bluesky-social/apigen/pkg/robusthttp"
)

type loadConfig struct {
	client *http.Client
	logger *slog.Logger
	yaml   *bool
}

type LoadOption func(*loadConfig)

// WithHTTPClient overrides the client used for http(s) resources.
func WithHTTPClient(c *http.Client) LoadOption {
	return func(lc *loadConfig) {
		lc.client = c
	}
}

func WithLogger(l *slog.Logger) LoadOption {
	return func(lc *loadConfig) {
		lc.logger = l
	}
}

// WithYAML forces (or forbids) YAML decoding instead of detecting it from the
// resource name and content type.
func WithYAML(yes bool) LoadOption {
	return func(lc *loadConfig) {
		lc.yaml = &yes
	}
}

// IsRemote reports whether resource names an http(s) URL rather than a path.
func IsRemote(resource string) bool {
	return strings.HasPrefix(resource, "http://") || strings.HasPrefix(resource, "https://")
}

// Load reads and parses an API reference from a local path or an http(s) URL.
func Load(ctx context.Context, resource string, opts ...LoadOption) (*Reference, error) {
	lc := &loadConfig{
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(lc)
	}

	var (
		body  []byte
		ctype string
		ext   string
		err   error
	)
	if IsRemote(resource) {
		if lc.client == nil {
			lc.client = robusthttp.NewClient(robusthttp.WithLogger(lc.logger))
		}
		lc.logger.Debug("fetching API reference", "url", resource)
		body, ctype, err = robusthttp.Fetch(ctx, lc.client, resource, 0)
		if err != nil {
			return nil, err
		}
		ext = path.Ext(strings.SplitN(resource, "?", 2)[0])
	} else {
		lc.logger.Debug("reading API reference", "path", resource)
		body, err = os.ReadFile(resource)
		if err != nil {
			return nil, fmt.Errorf("reading API reference: %w", err)
		}
		ext = filepath.Ext(resource)
	}

	isYAML := ext == ".yaml" || ext == ".yml" || strings.Contains(ctype, "yaml")
	if lc.yaml != nil {
		isYAML = *lc.yaml
	}

	var ref *Reference
	if isYAML {
		ref, err = ParseYAML(body)
	} else {
		ref, err = Parse(body)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", resource, err)
	}

	lc.logger.Info("loaded API reference", "resource", resource, "version", ref.Version, "modules", len(ref.Modules))
	return ref, nil
}
