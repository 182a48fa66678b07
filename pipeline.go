package ppmkit

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/wudi/ppmkit/filter"
	"github.com/wudi/ppmkit/ir"
	"github.com/wudi/ppmkit/observability"
	"github.com/wudi/ppmkit/parser"
	"github.com/wudi/ppmkit/writer"
)

// Config assembles a Pipeline. Zero values select the defaults used by
// NewDefault.
type Config struct {
	Workers   int
	MaxValues int64
	Logger    observability.Logger
	Tracer    observability.Tracer
}

// Pipeline orchestrates parse -> filter -> write over exclusively-owned
// buffers; each stage completes before the next begins.
type Pipeline struct {
	parser   *parser.Parser
	gaussian *filter.Gaussian
	writer   writer.Writer
	logger   observability.Logger
	tracer   observability.Tracer
}

// NewDefault constructs a pipeline with default limits, all CPUs for the
// filter stage and no-op observability.
func NewDefault() *Pipeline { return New(Config{}) }

func New(cfg Config) *Pipeline {
	if cfg.Logger == nil {
		cfg.Logger = observability.NopLogger{}
	}
	if cfg.Tracer == nil {
		cfg.Tracer = observability.NopTracer()
	}
	return &Pipeline{
		parser:   parser.New(parser.Config{MaxValues: cfg.MaxValues, Logger: cfg.Logger}),
		gaussian: filter.NewGaussian(filter.Config{Workers: cfg.Workers, Logger: cfg.Logger}),
		writer:   writer.New(),
		logger:   cfg.Logger,
		tracer:   cfg.Tracer,
	}
}

// Parse decodes a plain PPM stream.
func (p *Pipeline) Parse(ctx context.Context, r io.Reader) (*ir.Image, error) {
	ctx, span := p.tracer.StartSpan(ctx, "ppm.parse")
	defer span.Finish()
	start := time.Now()
	img, err := p.parser.Parse(ctx, r)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("parse: %w", err)
	}
	p.logger.Info("parsed image",
		observability.Int("width", img.Width),
		observability.Int("height", img.Height),
		observability.String(observability.MetricParseTime, time.Since(start).String()))
	return img, nil
}

// Blur applies the fixed smoothing filter.
func (p *Pipeline) Blur(ctx context.Context, img *ir.Image) (*ir.Image, error) {
	ctx, span := p.tracer.StartSpan(ctx, "ppm.filter")
	defer span.Finish()
	start := time.Now()
	out, err := p.gaussian.Apply(ctx, img)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("filter: %w", err)
	}
	p.logger.Info("filtered image",
		observability.String(observability.MetricFilterTime, time.Since(start).String()))
	return out, nil
}

// Write serializes img as plain PPM text.
func (p *Pipeline) Write(ctx context.Context, img *ir.Image, w io.Writer) error {
	ctx, span := p.tracer.StartSpan(ctx, "ppm.write")
	defer span.Finish()
	start := time.Now()
	if err := p.writer.Write(ctx, img, w, writer.Config{}); err != nil {
		span.SetError(err)
		return fmt.Errorf("write: %w", err)
	}
	p.logger.Info("wrote image",
		observability.String(observability.MetricWriteTime, time.Since(start).String()))
	return nil
}

// Process runs the full decode -> blur -> encode pipeline. The source
// buffer is released to the collector once filtering completes.
func (p *Pipeline) Process(ctx context.Context, r io.Reader, w io.Writer) error {
	img, err := p.Parse(ctx, r)
	if err != nil {
		return err
	}
	out, err := p.Blur(ctx, img)
	if err != nil {
		return err
	}
	return p.Write(ctx, out, w)
}
