package scanner

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func newScanner(t *testing.T, data string, cfg Config) Scanner {
	t.Helper()
	return New(strings.NewReader(data), cfg)
}

func nextToken(t *testing.T, s Scanner) Token {
	t.Helper()
	tok, err := s.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tok
}

func TestScanner_BasicIntegers(t *testing.T) {
	s := newScanner(t, "3 2\n255\t\t17", Config{})
	for _, want := range []int64{3, 2, 255, 17} {
		tok := nextToken(t, s)
		if tok.Value != want {
			t.Fatalf("expected %d, got %+v", want, tok)
		}
	}
	if _, err := s.Next(); err != io.EOF {
		t.Fatalf("expected EOF after last token, got %v", err)
	}
}

func TestScanner_SignedValues(t *testing.T) {
	s := newScanner(t, "-7 +12", Config{})
	if tok := nextToken(t, s); tok.Value != -7 {
		t.Fatalf("expected -7, got %+v", tok)
	}
	if tok := nextToken(t, s); tok.Value != 12 {
		t.Fatalf("expected 12, got %+v", tok)
	}
}

func TestScanner_CommentsBetweenTokens(t *testing.T) {
	s := newScanner(t, "# leading comment\n1 # mid comment\n2\n#another\n#and another\n3", Config{})
	for _, want := range []int64{1, 2, 3} {
		tok := nextToken(t, s)
		if tok.Value != want {
			t.Fatalf("expected %d, got %+v", want, tok)
		}
	}
}

func TestScanner_CommentAdjacentToToken(t *testing.T) {
	// '#' directly after digits terminates the token.
	s := newScanner(t, "42#comment\n7", Config{})
	if tok := nextToken(t, s); tok.Value != 42 {
		t.Fatalf("expected 42, got %+v", tok)
	}
	if tok := nextToken(t, s); tok.Value != 7 {
		t.Fatalf("expected 7, got %+v", tok)
	}
}

func TestScanner_CommentAtEOF(t *testing.T) {
	s := newScanner(t, "5 # trailing comment without newline", Config{})
	if tok := nextToken(t, s); tok.Value != 5 {
		t.Fatalf("expected 5, got %+v", tok)
	}
	if _, err := s.Next(); err != io.EOF {
		t.Fatalf("expected EOF for comment running to end of file, got %v", err)
	}
}

func TestScanner_MalformedToken(t *testing.T) {
	s := newScanner(t, "12 abc", Config{})
	if tok := nextToken(t, s); tok.Value != 12 {
		t.Fatalf("expected 12, got %+v", tok)
	}
	_, err := s.Next()
	if !errors.Is(err, ErrMalformedInteger) {
		t.Fatalf("expected ErrMalformedInteger, got %v", err)
	}
}

func TestScanner_BareSignIsMalformed(t *testing.T) {
	s := newScanner(t, "-", Config{})
	if _, err := s.Next(); !errors.Is(err, ErrMalformedInteger) {
		t.Fatalf("expected ErrMalformedInteger for bare sign, got %v", err)
	}
}

func TestScanner_TokenLengthGuard(t *testing.T) {
	s := newScanner(t, strings.Repeat("9", 100), Config{MaxTokenLen: 20})
	if _, err := s.Next(); !errors.Is(err, ErrMalformedInteger) {
		t.Fatalf("expected ErrMalformedInteger for oversized token, got %v", err)
	}
}

func TestScanner_PositionTracking(t *testing.T) {
	s := newScanner(t, "  10 20", Config{})
	if tok := nextToken(t, s); tok.Pos != 2 {
		t.Fatalf("expected first token at offset 2, got %+v", tok)
	}
	if tok := nextToken(t, s); tok.Pos != 5 {
		t.Fatalf("expected second token at offset 5, got %+v", tok)
	}
}

func TestScanner_Tag(t *testing.T) {
	s := newScanner(t, "# magic follows\n P3 3 2", Config{})
	tag, err := s.Tag()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != "P3" {
		t.Fatalf("expected P3 tag, got %q", tag)
	}
	if tok := nextToken(t, s); tok.Value != 3 {
		t.Fatalf("expected 3 after tag, got %+v", tok)
	}
}

func TestScanner_TagStopsAtTwoBytes(t *testing.T) {
	s := newScanner(t, "P3X", Config{})
	tag, err := s.Tag()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != "P3" {
		t.Fatalf("expected 2-byte tag, got %q", tag)
	}
}

func TestScanner_TagEmptyStream(t *testing.T) {
	s := newScanner(t, "   # only a comment", Config{})
	if _, err := s.Tag(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}
