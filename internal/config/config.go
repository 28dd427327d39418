package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/goccy/go-yaml"

	"github.com/jacoelho/jtok/internal/chunk"
	"github.com/jacoelho/jtok/internal/exit"
	"github.com/jacoelho/jtok/internal/paths"
)

// Version is reported by --version.
var Version = "dev"

// Commands.
const (
	CommandFields = "fields"
	CommandFmt    = "fmt"
	CommandCount  = "count"
	CommandPaths  = "paths"
	CommandQuery  = "query"
	CommandYAML   = "yaml"
	CommandBuild  = "build"
)

// Stdin is the file name that selects standard input.
const Stdin = "-"

var (
	ErrNoArguments     = errors.New("no arguments provided")
	ErrInvalidPair     = errors.New("pair must be in format key=value")
	ErrEmptyKey        = errors.New("pair key cannot be empty")
	ErrInvalidMaxBytes = errors.New("invalid max-bytes")
	ErrNegative        = errors.New("value cannot be negative")
)

// Config represents the complete configuration for the jtok tool.
type Config struct {
	Command string

	// Input
	File  string
	Expr  string
	Keys  []string // Members selected by the fields command
	Pairs []Pair

	// Tokenizer
	Capacity  int // Arena size (0 = exact, sized by a dry run)
	BlockSize int
	MaxBytes  int64 // Input limit in bytes (0 = unlimited)
	MaxDepth  int

	// Output
	Debug bool
	Color bool
}

// Pair is one key=value argument of the build command.
type Pair struct {
	Key   string
	Value string
}

// ChunkOptions returns the reader options for the configured limits.
func (c *Config) ChunkOptions() chunk.Options {
	return chunk.Options{
		BlockSize: c.BlockSize,
		Capacity:  c.Capacity,
		MaxBytes:  c.MaxBytes,
		SizeOnly:  c.Command == CommandCount,
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	for name, v := range map[string]int64{
		"capacity":   int64(c.Capacity),
		"block-size": int64(c.BlockSize),
		"max-bytes":  c.MaxBytes,
		"max-depth":  int64(c.MaxDepth),
	} {
		if v < 0 {
			return fmt.Errorf("%s: %w, got: %d", name, ErrNegative, v)
		}
	}

	if c.File != Stdin && c.Command != CommandBuild {
		if _, err := os.Stat(c.File); err != nil {
			return fmt.Errorf("input file %s not found: %w", c.File, err)
		}
	}

	return nil
}

// fileConfig holds the defaults a config file may set.
type fileConfig struct {
	Capacity  *int    `yaml:"capacity"`
	BlockSize *int    `yaml:"block-size"`
	MaxBytes  *string `yaml:"max-bytes"`
	MaxDepth  *int    `yaml:"max-depth"`
	Debug     *bool   `yaml:"debug"`
	Color     *bool   `yaml:"color"`
}

// setFlags records which flags were given on the command line.
type setFlags struct {
	capacity, blockSize, maxBytes, maxDepth, debug, color bool
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n", ErrNoArguments)
	}

	var (
		usage      bytes.Buffer
		terminated bool
		set        setFlags
	)

	app := kingpin.New(args[0], "Tokenize, inspect and build JSON documents.")
	app.Version(Version)
	app.HelpFlag.Short('h')
	app.UsageWriter(&usage)
	app.ErrorWriter(&usage)
	app.Terminate(func(int) { terminated = true })

	var (
		configFile = app.Flag("config", "YAML file with default settings.").Envar("JTOK_CONFIG").String()
		capacity   = app.Flag("capacity", "Token arena size (0 sizes it exactly with a dry run).").Default("0").IsSetByUser(&set.capacity).Int()
		blockSize  = app.Flag("block-size", "Bytes requested per read.").Default(fmt.Sprint(chunk.DefaultBlockSize)).IsSetByUser(&set.blockSize).Int()
		maxBytes   = app.Flag("max-bytes", "Input size limit such as 10MB (0 for unlimited).").Default("0").IsSetByUser(&set.maxBytes).String()
		maxDepth   = app.Flag("max-depth", "Nesting limit for the paths command.").Default(fmt.Sprint(paths.DefaultMaxDepth)).IsSetByUser(&set.maxDepth).Int()
		debug      = app.Flag("debug", "Enable debug logging on stderr.").IsSetByUser(&set.debug).Bool()
		color      = app.Flag("color", "Highlight keys and paths.").Default("true").IsSetByUser(&set.color).Bool()
	)

	var (
		files = make(map[string]*string)
		expr  string
		keys  []string
		pairs []string
	)

	for _, cmd := range []struct{ name, help string }{
		{CommandFields, "Print the members of a root object."},
		{CommandFmt, "Re-serialize a document as compact JSON."},
		{CommandCount, "Print the number of tokens a document needs."},
		{CommandPaths, "Print every leaf as a JSONPath assignment."},
		{CommandYAML, "Print a document as YAML, keeping key order."},
	} {
		clause := app.Command(cmd.name, cmd.help)
		files[cmd.name] = clause.Arg("file", "Input file, - for stdin.").Default(Stdin).String()
		if cmd.name == CommandFields {
			clause.Flag("key", "Member to print, name or name[index] (repeatable).").Short('k').StringsVar(&keys)
		}
	}

	query := app.Command(CommandQuery, "Print the nodes matching a JSONPath expression.")
	query.Arg("expr", "JSONPath expression.").Required().StringVar(&expr)
	files[CommandQuery] = query.Arg("file", "Input file, - for stdin.").Default(Stdin).String()

	app.Command(CommandBuild, "Build an object from key=value pairs.").Arg("pairs", "Members in format key=value.").StringsVar(&pairs)

	command, err := app.Parse(args[1:])
	if terminated {
		return nil, exit.Success(usage.String())
	}
	if err != nil {
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage(app))
	}

	cfg := &Config{
		Command:   command,
		Expr:      expr,
		Keys:      keys,
		Capacity:  *capacity,
		BlockSize: *blockSize,
		MaxDepth:  *maxDepth,
		Debug:     *debug,
		Color:     *color,
	}

	if file, ok := files[command]; ok {
		cfg.File = *file
	}

	if cfg.MaxBytes, err = parseBytes(*maxBytes); err != nil {
		return nil, exit.Errorf("Error: %v\n", err)
	}

	if *configFile != "" {
		if err := cfg.loadFile(*configFile, set); err != nil {
			return nil, exit.Errorf("Error: failed to load config file: %v\n", err)
		}
	}

	for _, pair := range pairs {
		p, err := parsePair(pair)
		if err != nil {
			return nil, exit.Errorf("Error: %v\n", err)
		}
		cfg.Pairs = append(cfg.Pairs, p)
	}

	if err := cfg.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n", err)
	}

	return cfg, nil
}

// loadFile applies defaults from a YAML file to every setting not given
// on the command line.
func (c *Config) loadFile(filename string, set setFlags) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	defer f.Close()

	var fc fileConfig
	if err := yaml.NewDecoder(f, yaml.Strict()).Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode %s: %w", filename, err)
	}

	if fc.Capacity != nil && !set.capacity {
		c.Capacity = *fc.Capacity
	}
	if fc.BlockSize != nil && !set.blockSize {
		c.BlockSize = *fc.BlockSize
	}
	if fc.MaxBytes != nil && !set.maxBytes {
		if c.MaxBytes, err = parseBytes(*fc.MaxBytes); err != nil {
			return err
		}
	}
	if fc.MaxDepth != nil && !set.maxDepth {
		c.MaxDepth = *fc.MaxDepth
	}
	if fc.Debug != nil && !set.debug {
		c.Debug = *fc.Debug
	}
	if fc.Color != nil && !set.color {
		c.Color = *fc.Color
	}

	return nil
}

func parseBytes(s string) (int64, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidMaxBytes, s, err)
	}
	if n > 1<<62 {
		return 0, fmt.Errorf("%w: %s is too large", ErrInvalidMaxBytes, s)
	}
	return int64(n), nil
}

func parsePair(s string) (Pair, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return Pair{}, fmt.Errorf("%w, got: %s", ErrInvalidPair, s)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return Pair{}, ErrEmptyKey
	}

	return Pair{Key: key, Value: value}, nil
}

// Usage returns the help text of app.
func Usage(app *kingpin.Application) string {
	var buf bytes.Buffer
	app.UsageWriter(&buf)
	app.Usage(nil)
	return buf.String()
}
