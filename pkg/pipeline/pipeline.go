// Package pipeline provides the core CFG pipeline for cfgview.
//
// This package implements the complete normalize → build → layout → render
// pipeline used by the CLI and the HTTP API. Both entry points go through
// the same [Runner], so caching and defaults behave identically.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Normalize: Decode a backend payload and extract basic blocks
//  2. Layout: Build the control-flow graph and compute positions
//  3. Render: Generate output in the requested formats (JSON, DOT, SVG, PNG, PDF)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, payload, pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	if errors.Is(err, pipeline.ErrNoBlocks) {
//	    // nothing to draw
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	strategy, blocks, err := pipeline.Normalize(ctx, payload)
//	g, res := pipeline.GenerateLayout(ctx, blocks, opts)
//	artifacts, err := pipeline.Render(ctx, res, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cfgview/pkg/cache"
	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/errors"
	"github.com/matzehuels/cfgview/pkg/layout"
)

// ErrNoBlocks is returned when a payload yields zero basic blocks.
// Callers show "no data" instead of an empty drawing.
var ErrNoBlocks = errors.New(errors.ErrCodeNoBlocks, "no basic blocks in payload")

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options. A zero Spacing means [layout.DefaultSpacing].
	Spacing         layout.Spacing `json:"spacing"`
	// MaxInstructions caps the instructions kept per block. Zero means
	// [cfg.DefaultMaxInstructions]; there is no keep-all setting.
	MaxInstructions int            `json:"max_instructions,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // List instructions in DOT/SVG node labels
	Refresh  bool     `json:"refresh,omitempty"`  // Recompute even when cached

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Strategy names the payload shape blocks were extracted from.
	Strategy string

	// Blocks are the normalized basic blocks. Nil when the layout came
	// from the cache.
	Blocks []cfg.BasicBlock

	// Graph is the control-flow graph. Nil when the layout came from the
	// cache.
	Graph *cfg.Graph

	// Layout is the computed layout.
	Layout layout.Result

	// PayloadHash is the content hash of the input payload.
	PayloadHash string

	// LayoutHash is the content hash of the layout JSON.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BlockCount    int
	NodeCount     int
	EdgeCount     int
	DroppedEdges  int
	NormalizeTime time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.MaxInstructions < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_instructions must not be negative, got %d", o.MaxInstructions)
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Spacing == (layout.Spacing{}) {
		o.Spacing = layout.DefaultSpacing()
	}
	o.Spacing = o.Spacing.WithDefaults()
	if o.MaxInstructions == 0 {
		o.MaxInstructions = cfg.DefaultMaxInstructions
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		RankSep:         o.Spacing.RankSep,
		NodeSep:         o.Spacing.NodeSep,
		NodeWidth:       o.Spacing.NodeWidth,
		NodeHeight:      o.Spacing.NodeHeight,
		Sweeps:          o.Spacing.Sweeps,
		MaxInstructions: o.MaxInstructions,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Detailed only changes graph renderings.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed && format != FormatJSON,
	}
}
