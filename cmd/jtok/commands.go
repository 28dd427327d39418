package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/goccy/go-yaml"

	"github.com/jacoelho/jtok/internal/chunk"
	"github.com/jacoelho/jtok/internal/config"
	"github.com/jacoelho/jtok/internal/jsontok"
	"github.com/jacoelho/jtok/internal/paths"
	"github.com/jacoelho/jtok/internal/query"
	"github.com/jacoelho/jtok/internal/value"
)

var (
	errObjectExpected = errors.New("object expected at the root")
	errKeyNotFound    = errors.New("key not found")
)

var tokenSize = uint64(unsafe.Sizeof(jsontok.Token{}))

// commander runs one configured command.
type commander struct {
	cfg    *config.Config
	stdin  io.Reader
	out    *bufio.Writer
	logger log.Logger
	key    *color.Color
}

func newCommander(cfg *config.Config, stdin io.Reader, stdout io.Writer, logger log.Logger) *commander {
	key := color.New(color.FgCyan, color.Bold)
	if !cfg.Color {
		key.DisableColor()
	}

	return &commander{
		cfg:    cfg,
		stdin:  stdin,
		out:    bufio.NewWriter(stdout),
		logger: logger,
		key:    key,
	}
}

func (c *commander) run(ctx context.Context) error {
	var err error

	switch c.cfg.Command {
	case config.CommandBuild:
		err = c.build()
	case config.CommandCount:
		err = c.withInput(ctx, c.count)
	case config.CommandFields:
		err = c.withInput(ctx, c.fields)
	case config.CommandFmt:
		err = c.withInput(ctx, c.format)
	case config.CommandPaths:
		err = c.withInput(ctx, c.listPaths)
	case config.CommandQuery:
		err = c.withInput(ctx, c.selectNodes)
	case config.CommandYAML:
		err = c.withInput(ctx, c.toYAML)
	default:
		err = fmt.Errorf("unknown command %q", c.cfg.Command)
	}

	if flushErr := c.out.Flush(); err == nil {
		err = flushErr
	}
	return err
}

// withInput reads and tokenizes the configured input before calling fn.
func (c *commander) withInput(ctx context.Context, fn func(*chunk.Document) error) error {
	r := c.stdin
	if c.cfg.File != config.Stdin {
		f, err := os.Open(c.cfg.File)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	opts := c.cfg.ChunkOptions()
	opts.Logger = c.logger

	doc, err := chunk.Read(ctx, r, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", c.cfg.File, err)
	}
	if !opts.SizeOnly && len(doc.Tokens) == 0 {
		return fmt.Errorf("%s: %w: empty document", c.cfg.File, jsontok.ErrInvalid)
	}

	return fn(doc)
}

func (c *commander) count(doc *chunk.Document) error {
	_, err := fmt.Fprintf(c.out, "tokens: %s\narena: %s\ninput: %s\n",
		humanize.Comma(int64(doc.Count)),
		humanize.IBytes(uint64(doc.Count)*tokenSize),
		humanize.IBytes(uint64(len(doc.Text))),
	)
	return err
}

// format writes every root value as compact JSON, one per line.
func (c *commander) format(doc *chunk.Document) error {
	sink := jsontok.WriterSink(c.out)
	for off := 0; off < len(doc.Tokens); {
		n, err := jsontok.Dump(doc.Tokens[off:], sink)
		if err != nil {
			return err
		}
		if err := c.out.WriteByte('\n'); err != nil {
			return err
		}
		off += n
	}
	return nil
}

// fields prints the members of a root object, listing array elements one
// per line. With keys set, only those members are printed, in key order.
// A key may select an array element as name[n].
func (c *commander) fields(doc *chunk.Document) error {
	tokens := doc.Tokens
	if tokens[0].Type != jsontok.Object {
		return errObjectExpected
	}

	if len(c.cfg.Keys) > 0 {
		for _, key := range c.cfg.Keys {
			v, err := lookup(tokens, key)
			if err != nil {
				return err
			}
			if err := c.field(tokens, key, v); err != nil {
				return err
			}
		}
		return nil
	}

	for label := range jsontok.Children(tokens, 0) {
		name, err := value.Unquote(tokens[label].Data)
		if err != nil {
			return err
		}
		if err := c.field(tokens, name, label+1); err != nil {
			return err
		}
	}

	return nil
}

func (c *commander) field(tokens []jsontok.Token, name string, v int) error {
	if tokens[v].Type != jsontok.Array {
		text, err := c.text(tokens[v:])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(c.out, "- %s: %s\n", c.key.Sprint(name), text)
		return err
	}

	fmt.Fprintf(c.out, "- %s:\n", c.key.Sprint(name))
	for elem := range jsontok.Children(tokens, v) {
		text, err := c.text(tokens[elem:])
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(c.out, "  * %s\n", text); err != nil {
			return err
		}
	}
	return nil
}

// lookup resolves name or name[n] against the root object. Names are
// compared as written in the document.
func lookup(tokens []jsontok.Token, key string) (int, error) {
	name, index := key, -1
	if open := strings.LastIndexByte(key, '['); open > 0 && strings.HasSuffix(key, "]") {
		if n, err := strconv.Atoi(key[open+1 : len(key)-1]); err == nil && n >= 0 {
			name, index = key[:open], n
		}
	}

	v := jsontok.Member(tokens, 0, name)
	if v != jsontok.Unset && index >= 0 {
		v = jsontok.Element(tokens, v, index)
	}
	if v == jsontok.Unset {
		return jsontok.Unset, fmt.Errorf("%w: %s", errKeyNotFound, key)
	}
	return v, nil
}

// text renders a string as its content and anything else as compact JSON.
func (c *commander) text(tokens []jsontok.Token) (string, error) {
	if tokens[0].Type == jsontok.String {
		return value.Unquote(tokens[0].Data)
	}

	var buf []byte
	_, err := jsontok.Dump(tokens, func(p []byte) error {
		buf = append(buf, p...)
		return nil
	})
	return string(buf), err
}

func (c *commander) listPaths(doc *chunk.Document) error {
	for entry, err := range paths.Walk(doc.Tokens, c.cfg.MaxDepth) {
		if err != nil {
			return err
		}

		fmt.Fprintf(c.out, "%s = ", c.key.Sprint(entry.Path))
		if _, err := jsontok.Dump(doc.Tokens[entry.Index:], jsontok.WriterSink(c.out)); err != nil {
			return err
		}
		if err := c.out.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

func (c *commander) selectNodes(doc *chunk.Document) error {
	nodes, err := query.Select(doc.Tokens, c.cfg.Expr)
	if err != nil {
		return err
	}
	level.Debug(c.logger).Log("msg", "query evaluated", "expr", c.cfg.Expr, "nodes", len(nodes))

	for _, node := range nodes {
		if _, err := c.out.Write(node); err != nil {
			return err
		}
		if err := c.out.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

func (c *commander) toYAML(doc *chunk.Document) error {
	v, _, err := value.Ordered(doc.Tokens)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	_, err = c.out.Write(out)
	return err
}

// build composes an object from key=value pairs. Values that are valid
// JSON numbers, booleans or null are kept raw, the rest become strings.
func (c *commander) build() error {
	b := jsontok.NewBuilder(make([]jsontok.Token, 1+2*len(c.cfg.Pairs)))
	if _, err := b.StartObject(nil); err != nil {
		return err
	}

	for _, pair := range c.cfg.Pairs {
		name, err := value.Escape(pair.Key)
		if err != nil {
			return err
		}

		if isPrimitive(pair.Value) {
			_, err = b.AppendPrimitive(name, []byte(pair.Value))
		} else {
			var escaped []byte
			if escaped, err = value.Escape(pair.Value); err == nil {
				_, err = b.AppendString(name, escaped)
			}
		}
		if err != nil {
			return err
		}
	}

	if _, err := b.EndObject(); err != nil {
		return err
	}
	level.Debug(c.logger).Log("msg", "built object", "tokens", b.Len())

	if _, err := jsontok.Dump(b.Tokens(), jsontok.WriterSink(c.out)); err != nil {
		return err
	}
	return c.out.WriteByte('\n')
}

func isPrimitive(s string) bool {
	if s == "" || !json.Valid([]byte(s)) {
		return false
	}
	switch s[0] {
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 't', 'f', 'n':
		return true
	}
	return false
}
