package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrMalformedInteger reports non-whitespace, non-comment content that does
// not form a valid decimal integer where one was required.
var ErrMalformedInteger = errors.New("malformed integer")

// Token is a single whitespace-delimited integer read from the stream.
type Token struct {
	Value int64
	Pos   int64 // byte offset of the first digit (or sign)
}

// Scanner extracts whitespace- and comment-delimited tokens from a plain PPM
// stream. '#' starts a comment running to end of line; comments may appear
// between any two tokens, including inside the pixel data.
type Scanner interface {
	// Next returns the next integer token, io.EOF when the stream ends
	// before any non-skippable content, or ErrMalformedInteger.
	Next() (Token, error)
	// Tag returns the next token of at most two non-delimiter bytes,
	// used for the format magic.
	Tag() (string, error)
	Position() int64
}

type Config struct {
	// MaxTokenLen bounds a single token's byte length as a guard against
	// pathological digit runs. Zero means the default of 64.
	MaxTokenLen int
}

// ppmScanner reads linearly through a buffered stream. Plain PPM needs no
// random access, so a single forward cursor is enough.
type ppmScanner struct {
	r   *bufio.Reader
	pos int64
	cfg Config
}

func New(r io.Reader, cfg Config) Scanner {
	if cfg.MaxTokenLen <= 0 {
		cfg.MaxTokenLen = 64
	}
	return &ppmScanner{r: bufio.NewReader(r), cfg: cfg}
}

func (s *ppmScanner) Position() int64 { return s.pos }

func (s *ppmScanner) readByte() (byte, error) {
	c, err := s.r.ReadByte()
	if err == nil {
		s.pos++
	}
	return c, err
}

func (s *ppmScanner) unreadByte() {
	// ReadByte succeeded immediately before every unread, so this cannot fail.
	_ = s.r.UnreadByte()
	s.pos--
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// skipFiller consumes whitespace runs and '#'-to-EOL comments. A comment that
// runs to end-of-file without a trailing newline counts as end of stream.
func (s *ppmScanner) skipFiller() error {
	for {
		c, err := s.readByte()
		if err != nil {
			return err
		}
		if isSpace(c) {
			continue
		}
		if c == '#' {
			for {
				c, err = s.readByte()
				if err != nil {
					return err
				}
				if c == '\n' {
					break
				}
			}
			continue
		}
		s.unreadByte()
		return nil
	}
}

func (s *ppmScanner) Next() (Token, error) {
	if err := s.skipFiller(); err != nil {
		if errors.Is(err, io.EOF) {
			return Token{}, io.EOF
		}
		return Token{}, err
	}
	start := s.pos
	buf := make([]byte, 0, 8)
	for {
		c, err := s.readByte()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Token{}, err
		}
		if isSpace(c) || c == '#' {
			s.unreadByte()
			break
		}
		buf = append(buf, c)
		if len(buf) > s.cfg.MaxTokenLen {
			return Token{}, fmt.Errorf("%w: token longer than %d bytes at offset %d", ErrMalformedInteger, s.cfg.MaxTokenLen, start)
		}
	}
	v, err := strconv.ParseInt(string(buf), 10, 64)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %q at offset %d", ErrMalformedInteger, buf, start)
	}
	return Token{Value: v, Pos: start}, nil
}

func (s *ppmScanner) Tag() (string, error) {
	if err := s.skipFiller(); err != nil {
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", err
	}
	buf := make([]byte, 0, 2)
	for len(buf) < 2 {
		c, err := s.readByte()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if isSpace(c) || c == '#' {
			s.unreadByte()
			break
		}
		buf = append(buf, c)
	}
	if len(buf) == 0 {
		return "", io.EOF
	}
	return string(buf), nil
}
