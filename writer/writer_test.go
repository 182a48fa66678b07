package writer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wudi/ppmkit/ir"
	"github.com/wudi/ppmkit/parser"
)

func write(t *testing.T, img *ir.Image, cfg Config) string {
	t.Helper()
	var buf bytes.Buffer
	if err := New().Write(context.Background(), img, &buf, cfg); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	return buf.String()
}

func sequential(w, h int, maxValue int32) *ir.Image {
	img := ir.New(w, h, maxValue)
	for i := range img.Channels {
		img.Channels[i] = int32(i+1) % (maxValue + 1)
	}
	return img
}

func TestWriter_PartialLastLine(t *testing.T) {
	img := ir.New(2, 1, 255)
	copy(img.Channels, []int32{10, 20, 30, 40, 50, 60})
	got := write(t, img, Config{})
	// Six tokens do not fill a line: separator after each token, then the
	// closing newline for the partial line.
	want := "P3\n2 1\n255\n10 20 30 40 50 60 \n"
	if got != want {
		t.Fatalf("unexpected output:\ngot  %q\nwant %q", got, want)
	}
}

func TestWriter_ExactLineFill(t *testing.T) {
	img := sequential(5, 1, 255) // exactly 15 values
	got := write(t, img, Config{})
	want := "P3\n5 1\n255\n1 2 3 4 5 6 7 8 9 10 11 12 13 14 15\n"
	if got != want {
		t.Fatalf("unexpected output:\ngot  %q\nwant %q", got, want)
	}
	if strings.HasSuffix(got, "\n\n") {
		t.Fatal("full final line must not gain an extra newline")
	}
}

func TestWriter_WrapsEveryFifteenValues(t *testing.T) {
	img := sequential(10, 2, 255) // 60 values, four full lines
	got := write(t, img, Config{})
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 3+4 {
		t.Fatalf("expected 3 header lines + 4 value lines, got %d: %q", len(lines), got)
	}
	for _, line := range lines[3:] {
		if n := len(strings.Fields(line)); n != 15 {
			t.Fatalf("expected 15 tokens per line, got %d in %q", n, line)
		}
	}
}

func TestWriter_CustomValuesPerLine(t *testing.T) {
	img := ir.New(1, 1, 255)
	copy(img.Channels, []int32{1, 2, 3})
	got := write(t, img, Config{ValuesPerLine: 3})
	want := "P3\n1 1\n255\n1 2 3\n"
	if got != want {
		t.Fatalf("unexpected output:\ngot  %q\nwant %q", got, want)
	}
}

func TestWriter_RoundTrip(t *testing.T) {
	img := sequential(9, 7, 255)
	out := write(t, img, Config{})
	back, err := parser.New(parser.Config{}).Parse(context.Background(), strings.NewReader(out))
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	if diff := cmp.Diff(img, back); diff != "" {
		t.Fatalf("round trip mismatch (-written +reparsed):\n%s", diff)
	}
}

func TestWriter_RoundTrip16Bit(t *testing.T) {
	img := ir.New(4, 4, 65535)
	for i := range img.Channels {
		img.Channels[i] = int32(i * 4321 % 65536)
	}
	out := write(t, img, Config{})
	back, err := parser.New(parser.Config{}).Parse(context.Background(), strings.NewReader(out))
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	if diff := cmp.Diff(img, back); diff != "" {
		t.Fatalf("round trip mismatch (-written +reparsed):\n%s", diff)
	}
}

func TestWriter_RejectsInvalidImage(t *testing.T) {
	img := ir.New(2, 2, 255)
	img.Channels[0] = -3
	var buf bytes.Buffer
	if err := New().Write(context.Background(), img, &buf, Config{}); err == nil {
		t.Fatal("expected error for out-of-range buffer")
	}
}
