package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/jacoelho/jtok/internal/config"
	"github.com/jacoelho/jtok/internal/exit"
)

func main() {
	exitCode := run(os.Args, os.Stdin, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, exitResult := config.Parse(args)
	if exitResult != nil {
		return report(exitResult, stdout, stderr)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := newLogger(stderr, cfg.Debug)
	level.Debug(logger).Log("msg", "starting", "command", cfg.Command, "file", cfg.File)

	c := newCommander(cfg, stdin, stdout, logger)
	if err := c.run(ctx); err != nil {
		level.Debug(logger).Log("msg", "command failed", "command", cfg.Command, "err", err)
		return report(exit.FromError(err), stdout, stderr)
	}

	return exit.CodeOK
}

// report prints r to the stream matching its destination.
func report(r *exit.Result, stdout, stderr io.Writer) int {
	if r.Output == os.Stdout {
		r.Output = stdout
	} else {
		r.Output = stderr
	}
	r.Print()
	return r.ExitCode
}

func newLogger(w io.Writer, debug bool) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	if debug {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowWarn())
}
