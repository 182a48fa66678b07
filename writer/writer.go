package writer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/wudi/ppmkit/ir"
)

// DefaultValuesPerLine is the token count after which a newline is emitted.
// Downstream consumers rely on this exact wrapping.
const DefaultValuesPerLine = 15

type Config struct {
	// ValuesPerLine overrides DefaultValuesPerLine when positive.
	ValuesPerLine int
}

// Writer serializes an ir.Image as plain (P3) PPM text.
type Writer interface {
	Write(ctx context.Context, img *ir.Image, w io.Writer, cfg Config) error
}

type impl struct{}

func New() Writer { return impl{} }

// Write emits the canonical header "P3\n{w} {h}\n{max}\n" followed by every
// channel value as a decimal token, space-separated, with a newline after
// each ValuesPerLine-th token and a trailing newline when the final line is
// partial.
func (impl) Write(ctx context.Context, img *ir.Image, w io.Writer, cfg Config) error {
	if err := img.Validate(); err != nil {
		return fmt.Errorf("serialize input: %w", err)
	}
	perLine := cfg.ValuesPerLine
	if perLine <= 0 {
		perLine = DefaultValuesPerLine
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n%d\n", img.Width, img.Height, img.MaxValue); err != nil {
		return err
	}

	var scratch [8]byte
	for i, v := range img.Channels {
		if i%(1<<16) == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		if _, err := bw.Write(strconv.AppendInt(scratch[:0], int64(v), 10)); err != nil {
			return err
		}
		sep := byte(' ')
		if (i+1)%perLine == 0 {
			sep = '\n'
		}
		if err := bw.WriteByte(sep); err != nil {
			return err
		}
	}
	if len(img.Channels)%perLine != 0 {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
