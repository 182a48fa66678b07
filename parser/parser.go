package parser

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/wudi/ppmkit/ir"
	"github.com/wudi/ppmkit/observability"
	"github.com/wudi/ppmkit/scanner"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrTruncatedHeader   = errors.New("truncated header")
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrInvalidMaxValue   = errors.New("invalid max value")
	ErrImageTooLarge     = errors.New("image too large")
	ErrPixelOutOfRange   = errors.New("pixel value out of range")
	ErrUnexpectedEOF     = errors.New("unexpected end of pixel data")
)

// DefaultMaxValues caps width*height*3 before the pixel buffer is allocated.
// A memory-safety guard, not a format limit.
const DefaultMaxValues int64 = 200_000_000

// Config controls plain-PPM parsing.
type Config struct {
	// MaxValues overrides DefaultMaxValues when positive.
	MaxValues int64
	Scanner   scanner.Config
	Logger    observability.Logger
}

// Parser decodes a plain (P3) PPM stream into an ir.Image.
type Parser struct {
	cfg Config
}

func New(cfg Config) *Parser {
	if cfg.MaxValues <= 0 {
		cfg.MaxValues = DefaultMaxValues
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.NopLogger{}
	}
	return &Parser{cfg: cfg}
}

// Parse reads the magic, header and exactly width*height*3 channel values.
// Every failure is fatal; no partial image is returned.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*ir.Image, error) {
	s := scanner.New(r, p.cfg.Scanner)

	tag, err := s.Tag()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing magic", ErrTruncatedHeader)
		}
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if tag != "P3" {
		return nil, fmt.Errorf("%w: magic %q, want \"P3\"", ErrUnsupportedFormat, tag)
	}

	width, err := p.headerInt(s, "width")
	if err != nil {
		return nil, err
	}
	height, err := p.headerInt(s, "height")
	if err != nil {
		return nil, err
	}
	maxValue, err := p.headerInt(s, "max value")
	if err != nil {
		return nil, err
	}

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %d x %d", ErrInvalidDimensions, width, height)
	}
	if maxValue < 1 || maxValue > ir.MaxChannelValue {
		return nil, fmt.Errorf("%w: %d outside [1, %d]", ErrInvalidMaxValue, maxValue, ir.MaxChannelValue)
	}
	// Bound each factor before multiplying so the product cannot wrap int64.
	if width > p.cfg.MaxValues || height > p.cfg.MaxValues {
		return nil, fmt.Errorf("%w: %d x %d, limit %d values", ErrImageTooLarge, width, height, p.cfg.MaxValues)
	}
	values := width * height * 3
	if values > p.cfg.MaxValues {
		return nil, fmt.Errorf("%w: %d x %d needs %d values, limit %d", ErrImageTooLarge, width, height, values, p.cfg.MaxValues)
	}

	p.cfg.Logger.Debug("header parsed",
		observability.Int64("width", width),
		observability.Int64("height", height),
		observability.Int64("max_value", maxValue),
		observability.Int64(observability.MetricValueCount, values))

	img := ir.New(int(width), int(height), int32(maxValue))
	for i := int64(0); i < values; i++ {
		if i%(1<<16) == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		tok, err := s.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: got %d of %d values", ErrUnexpectedEOF, i, values)
			}
			return nil, fmt.Errorf("read value %d: %w", i, err)
		}
		if tok.Value < 0 || tok.Value > maxValue {
			return nil, fmt.Errorf("%w: %d at value %d, max %d", ErrPixelOutOfRange, tok.Value, i, maxValue)
		}
		img.Channels[i] = int32(tok.Value)
	}
	return img, nil
}

// headerInt reads one required header integer, mapping end-of-stream to
// ErrTruncatedHeader. Header values beyond 31 bits are already out of any
// valid range, so they surface through the dimension and max-value checks.
func (p *Parser) headerInt(s scanner.Scanner, name string) (int64, error) {
	tok, err := s.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w: missing %s", ErrTruncatedHeader, name)
		}
		return 0, fmt.Errorf("read %s: %w", name, err)
	}
	return tok.Value, nil
}
