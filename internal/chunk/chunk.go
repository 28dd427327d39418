// Package chunk reads JSON text block by block and tokenizes it once the
// input is exhausted, sizing the token arena with a dry run.
package chunk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/jacoelho/jtok/internal/jsontok"
)

// DefaultBlockSize is the read size used when Options.BlockSize is unset.
const DefaultBlockSize = 32 * 1024

var (
	// ErrTooLarge indicates the input exceeds Options.MaxBytes.
	ErrTooLarge = errors.New("chunk: input too large")

	// ErrTruncated indicates the input ended inside a token or container.
	ErrTruncated = errors.New("chunk: input ended early")
)

// Options controls Read.
type Options struct {
	// BlockSize is the number of bytes requested per read.
	BlockSize int
	// Capacity fixes the arena size. Zero sizes it exactly with a dry run.
	Capacity int
	// MaxBytes bounds the input. Zero means unbounded.
	MaxBytes int64
	// SizeOnly skips the real parse; Document.Tokens stays nil.
	SizeOnly bool
	Logger   log.Logger
}

// Document is a fully read and tokenized input.
type Document struct {
	Text   []byte
	Tokens []jsontok.Token
	// Count is the number of tokens the text needs.
	Count int
}

// Read consumes r and tokenizes its content.
//
// After every block the new bytes are scanned in sizing mode, so malformed
// input stops the read early. The token count comes from one full sizing
// pass once the input is exhausted. Running out of
// input inside a token or container yields an error wrapping both
// ErrTruncated and jsontok.ErrIncomplete.
func Read(ctx context.Context, r io.Reader, opts Options) (*Document, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	blockSize := opts.BlockSize
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	text, err := readBlocks(ctx, r, blockSize, opts.MaxBytes, logger)
	if err != nil {
		return nil, err
	}

	count, err := jsontok.NewParser(nil).Parse(text)
	if err != nil {
		return nil, parseError(err)
	}
	level.Debug(logger).Log("msg", "sized input", "bytes", len(text), "tokens", count)

	doc := &Document{Text: text, Count: count}
	if opts.SizeOnly {
		return doc, nil
	}

	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = count
	}

	p := jsontok.NewParser(make([]jsontok.Token, capacity))
	n, err := p.Parse(text)
	if err != nil {
		level.Debug(logger).Log("msg", "parse failed", "pos", p.Pos(), "err", err)
		return nil, fmt.Errorf("%w at offset %d", parseError(err), p.Pos())
	}

	doc.Tokens = p.Tokens()
	doc.Count = n
	return doc, nil
}

func readBlocks(ctx context.Context, r io.Reader, blockSize int, maxBytes int64, logger log.Logger) ([]byte, error) {
	var (
		text   []byte
		sizing = jsontok.NewParser(nil)
		blocks int
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text = slices.Grow(text, blockSize)
		n, readErr := r.Read(text[len(text) : len(text)+blockSize])
		text = text[:len(text)+n]

		if maxBytes > 0 && int64(len(text)) > maxBytes {
			return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBytes)
		}

		if n > 0 {
			blocks++
			// A sizing scan keeps only its position, and an incomplete
			// token rewinds it, so each block resumes where the last stopped.
			if _, err := sizing.Parse(text); errors.Is(err, jsontok.ErrInvalid) {
				level.Debug(logger).Log("msg", "invalid input", "block", blocks, "pos", sizing.Pos())
				return nil, fmt.Errorf("%w at offset %d", err, sizing.Pos())
			}
		}

		if errors.Is(readErr, io.EOF) {
			level.Debug(logger).Log("msg", "input read", "blocks", blocks, "bytes", len(text))
			return text, nil
		}
		if readErr != nil {
			return nil, fmt.Errorf("read block %d: %w", blocks+1, readErr)
		}
	}
}

func parseError(err error) error {
	if errors.Is(err, jsontok.ErrIncomplete) {
		return fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	return err
}
