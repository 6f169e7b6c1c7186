// Package scorm parses IMS/SCORM package manifests into ordered navigation links.
//
// A parse loads the manifest once into an owned Tree, then runs three pure passes over it:
// DetectVersion, BuildResourceMap and a depth-first item traversal that composes launch URLs
// with a LinkGenerator. Every Parse call owns its tree, resource map and output list, so a
// Parser may be shared between goroutines.
package scorm

import (
	"context"

	"github.com/jonathan/course-navigator/internal/types"
	"go.uber.org/zap"
)

// Result is the output of a successful parse.
type Result struct {
	Location string                 `json:"location"`
	Version  string                 `json:"version"`
	Links    []types.NavigationLink `json:"links"`
}

// Parser turns manifest locations into navigation links.
type Parser struct {
	cfg              Config
	loader           Loader
	logger           *zap.Logger
	policy           ResolutionPolicy
	escapeDelimiters bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithLoader replaces the default FileLoader.
func WithLoader(l Loader) Option {
	return func(p *Parser) { p.loader = l }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithDelimiterEscaping toggles the EscapeDelimiters step on composed paths. It is on by default.
func WithDelimiterEscaping(enabled bool) Option {
	return func(p *Parser) { p.escapeDelimiters = enabled }
}

// NewParser creates a Parser. Empty learner fields in cfg take their defaults.
func NewParser(cfg Config, opts ...Option) *Parser {
	p := &Parser{
		cfg:              cfg.WithDefaults(),
		loader:           FileLoader{},
		logger:           zap.NewNop(),
		policy:           DropSubtreeOnUnresolvedReference,
		escapeDelimiters: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Policy returns how unresolved item references are handled.
func (p *Parser) Policy() ResolutionPolicy {
	return p.policy
}

// Config returns the effective configuration.
func (p *Parser) Config() Config {
	return p.cfg
}

// Parse retrieves the manifest at location and resolves its items into links.
// Retrieval is the only blocking step; once bytes arrive the rest runs to completion.
func (p *Parser) Parse(ctx context.Context, location string) (*Result, error) {
	data, err := p.loader.Load(ctx, location)
	if err != nil {
		return nil, &ManifestParsingError{
			Location: location,
			Stage:    StageLoad,
			Message:  "failed to load file",
			Cause:    err,
		}
	}
	return p.ParseBytes(location, data)
}

// ParseBytes resolves an already retrieved manifest. location is used for the
// server-relative paths and error messages.
func (p *Parser) ParseBytes(location string, data []byte) (*Result, error) {
	tree, err := ParseTree(data)
	if err != nil {
		return nil, &ManifestParsingError{
			Location: location,
			Stage:    StageParse,
			Message:  "error parsing XML",
			Cause:    err,
		}
	}
	p.debug("XML file successfully parsed", zap.String("location", location))

	version := DetectVersion(tree)
	p.debug("SCORM version detected", zap.String("version", version))

	resources := BuildResourceMap(tree)
	p.debug("resource map constructed", zap.Int("resources", len(resources)))

	tr := &traverser{
		tree:      tree,
		resources: resources,
		links: LinkGenerator{
			Config:           p.cfg,
			ManifestLocation: location,
			Version:          version,
			EscapeDelimiters: p.escapeDelimiters,
		},
		version: version,
		logger:  p.logger,
		debug:   p.cfg.Debug,
		out:     []types.NavigationLink{},
	}
	tr.traverse(topLevelItems(tree), types.NoParent)
	p.debug("traversal complete", zap.Int("links", len(tr.out)))

	return &Result{
		Location: location,
		Version:  version,
		Links:    tr.out,
	}, nil
}

func (p *Parser) debug(msg string, fields ...zap.Field) {
	if p.cfg.Debug {
		p.logger.Debug(msg, fields...)
	}
}
