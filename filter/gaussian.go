package filter

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/wudi/ppmkit/ir"
	"github.com/wudi/ppmkit/observability"
)

// kernel is the fixed 5x5 smoothing kernel, indexed [ky+2][kx+2]. It is
// applied as a direct 2-D weighted sum; the rounding of the normalized
// result is part of the output contract.
var kernel = [5][5]int64{
	{1, 2, 3, 2, 1},
	{2, 4, 6, 4, 2},
	{3, 6, 9, 6, 3},
	{2, 4, 6, 4, 2},
	{1, 2, 3, 2, 1},
}

// kernelSum is the normalization divisor.
const kernelSum int64 = 81

// Config controls the Gaussian filter.
type Config struct {
	// Workers is the number of row bands processed concurrently.
	// Zero or negative means runtime.GOMAXPROCS(0).
	Workers int
	Logger  observability.Logger
}

// Gaussian applies the fixed 5x5 smoothing kernel with clamp-to-edge
// sampling, producing a new image of identical shape.
type Gaussian struct {
	cfg Config
}

func NewGaussian(cfg Config) *Gaussian {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.NopLogger{}
	}
	return &Gaussian{cfg: cfg}
}

// Apply blurs src into a freshly allocated image. src is read-only; each
// worker writes a disjoint band of output rows, so no locking is needed.
func (g *Gaussian) Apply(ctx context.Context, src *ir.Image) (*ir.Image, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("filter input: %w", err)
	}
	dst := ir.New(src.Width, src.Height, src.MaxValue)

	workers := g.cfg.Workers
	if workers > src.Height {
		workers = src.Height
	}
	g.cfg.Logger.Debug("filter start",
		observability.Int("workers", workers),
		observability.Int("width", src.Width),
		observability.Int("height", src.Height))

	grp, ctx := errgroup.WithContext(ctx)
	rowsPer := (src.Height + workers - 1) / workers
	for start := 0; start < src.Height; start += rowsPer {
		start := start
		end := start + rowsPer
		if end > src.Height {
			end = src.Height
		}
		grp.Go(func() error {
			return blurRows(ctx, src, dst, start, end)
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return dst, nil
}

// blurRows computes output rows [startRow, endRow). Sampling beyond the
// border repeats the edge pixel.
func blurRows(ctx context.Context, src, dst *ir.Image, startRow, endRow int) error {
	w, h := src.Width, src.Height
	maxValue := int64(src.MaxValue)
	for y := startRow; y < endRow; y++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		for x := 0; x < w; x++ {
			for c := 0; c < 3; c++ {
				var acc int64
				for ky := -2; ky <= 2; ky++ {
					sy := ir.Clamp(y+ky, 0, h-1)
					for kx := -2; kx <= 2; kx++ {
						sx := ir.Clamp(x+kx, 0, w-1)
						acc += kernel[ky+2][kx+2] * int64(src.Channels[src.Index(sx, sy, c)])
					}
				}
				// Round to nearest; acc is always non-negative.
				v := (acc + kernelSum/2) / kernelSum
				if v < 0 {
					v = 0
				} else if v > maxValue {
					v = maxValue
				}
				dst.Channels[dst.Index(x, y, c)] = int32(v)
			}
		}
	}
	return nil
}
