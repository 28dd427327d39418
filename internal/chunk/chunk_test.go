package chunk

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/jacoelho/jtok/internal/jsontok"
)

const doc = `{"user":"johndoe","admin":false,"uid":1000,"groups":["users","wheel","audio","video"]}` + "\n"

func TestRead(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		reader func() io.Reader
		opts   Options
	}{
		{
			name:   "single block",
			reader: func() io.Reader { return strings.NewReader(doc) },
		},
		{
			name:   "small blocks",
			reader: func() io.Reader { return strings.NewReader(doc) },
			opts:   Options{BlockSize: 5},
		},
		{
			name:   "one byte at a time",
			reader: func() io.Reader { return iotest.OneByteReader(strings.NewReader(doc)) },
			opts:   Options{BlockSize: 3},
		},
		{
			name:   "fixed capacity",
			reader: func() io.Reader { return strings.NewReader(doc) },
			opts:   Options{Capacity: 64},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Read(context.Background(), tt.reader(), tt.opts)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if string(got.Text) != doc {
				t.Errorf("Read() text = %q, want %q", got.Text, doc)
			}
			if got.Count != 13 || len(got.Tokens) != 13 {
				t.Errorf("Read() count = %d, tokens = %d, want 13", got.Count, len(got.Tokens))
			}
			if got.Tokens[0].Type != jsontok.Object || got.Tokens[0].Size != 4 {
				t.Errorf("root = %s size %d, want object size 4", got.Tokens[0].Type, got.Tokens[0].Size)
			}
		})
	}
}

func TestReadSizeOnly(t *testing.T) {
	t.Parallel()

	got, err := Read(context.Background(), strings.NewReader(doc), Options{SizeOnly: true})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Count != 13 {
		t.Errorf("Count = %d, want 13", got.Count)
	}
	if got.Tokens != nil {
		t.Errorf("Tokens = %v, want nil", got.Tokens)
	}
}

func TestReadStopsAtInvalidBlock(t *testing.T) {
	t.Parallel()

	r := io.MultiReader(
		strings.NewReader(`[x`),
		iotest.ErrReader(errors.New("read past invalid input")),
	)

	_, err := Read(context.Background(), r, Options{BlockSize: 2})
	if !errors.Is(err, jsontok.ErrInvalid) {
		t.Fatalf("Read() error = %v, want %v", err, jsontok.ErrInvalid)
	}
}

func TestReadInvalidEscapeAcrossBlocks(t *testing.T) {
	t.Parallel()

	r := io.MultiReader(
		strings.NewReader(`["ok","a\`),
		strings.NewReader(`q"`),
		iotest.ErrReader(errors.New("read past invalid input")),
	)

	_, err := Read(context.Background(), r, Options{BlockSize: 4})
	if !errors.Is(err, jsontok.ErrInvalid) {
		t.Fatalf("Read() error = %v, want %v", err, jsontok.ErrInvalid)
	}
}

func TestReadLargeInputInSmallBlocks(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteByte('[')
	elem := `"` + strings.Repeat("abc", 10) + `",`
	for b.Len() < 4<<20 {
		b.WriteString(elem)
	}
	b.WriteString("1]\n")
	input := b.String()

	want, err := jsontok.NewParser(nil).Parse([]byte(input))
	if err != nil {
		t.Fatalf("sizing Parse() error = %v", err)
	}

	start := time.Now()
	got, err := Read(context.Background(), strings.NewReader(input), Options{BlockSize: 1024, SizeOnly: true})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	elapsed := time.Since(start)

	if got.Count != want {
		t.Errorf("Count = %d, want %d", got.Count, want)
	}
	// Rescanning the whole buffer per block takes tens of seconds here.
	if elapsed > 5*time.Second {
		t.Errorf("Read() of %d bytes in 1KiB blocks took %v", len(input), elapsed)
	}
}

func TestReadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		opts  Options
		want  []error
	}{
		{
			name:  "ends inside primitive",
			input: `{"a":[1,2`,
			want:  []error{ErrTruncated, jsontok.ErrIncomplete},
		},
		{
			name:  "ends inside string",
			input: `["abc`,
			opts:  Options{BlockSize: 2},
			want:  []error{ErrTruncated, jsontok.ErrIncomplete},
		},
		{
			name:  "unclosed container",
			input: `{"a":[1,2]`,
			want:  []error{ErrTruncated, jsontok.ErrIncomplete},
		},
		{
			name:  "mismatched closer",
			input: `{"a":[1,2}}`,
			want:  []error{jsontok.ErrInvalid},
		},
		{
			name:  "capacity too small",
			input: doc,
			opts:  Options{Capacity: 12},
			want:  []error{jsontok.ErrOutOfTokens},
		},
		{
			name:  "too large",
			input: doc,
			opts:  Options{BlockSize: 8, MaxBytes: 16},
			want:  []error{ErrTooLarge},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Read(context.Background(), strings.NewReader(tt.input), tt.opts)
			for _, want := range tt.want {
				if !errors.Is(err, want) {
					t.Errorf("Read() error = %v, want %v", err, want)
				}
			}
		})
	}
}

func TestReadCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Read(ctx, strings.NewReader(doc), Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Read() error = %v, want %v", err, context.Canceled)
	}
}

func TestReadLogsAtDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := level.NewFilter(log.NewLogfmtLogger(&buf), level.AllowDebug())

	if _, err := Read(context.Background(), strings.NewReader(doc), Options{BlockSize: 16, Logger: logger}); err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{`msg="input read"`, "blocks=6", `msg="sized input"`, "tokens=13"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}
