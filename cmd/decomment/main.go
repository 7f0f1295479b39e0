package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/strongdm/decomment/internal/decomment"
	"github.com/strongdm/decomment/internal/envfile"
	"github.com/strongdm/decomment/internal/version"
)

// signalCancelContext returns a context cancelled on SIGINT or SIGTERM. The
// cause names the signal so a stopped batch can report why it stopped.
func signalCancelContext() (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(context.Background())
	sigCh := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			cancel(fmt.Errorf("decomment: interrupted by %s", sig))
		case <-done:
		}
	}()
	return ctx, func() {
		signal.Stop(sigCh)
		close(done)
		cancel(nil)
	}
}

func main() {
	// Settings from .env feed the env-backed flags, so they must be in place
	// before flag parsing.
	if _, err := envfile.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ctx, cleanup := signalCancelContext()
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	cleanup()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := newApp(stdin, stdout, stderr)
	code := 0
	handled := false
	app.ExitErrHandler = func(_ *cli.Context, err error) {
		handled = true
		code = exitCode(stderr, err)
	}
	if err := app.RunContext(ctx, args); err != nil && !handled {
		code = exitCode(stderr, err)
	}
	return code
}

func exitCode(stderr io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		if msg := ec.Error(); msg != "" {
			fmt.Fprintln(stderr, msg)
		}
		return ec.ExitCode()
	}
	fmt.Fprintln(stderr, err)
	return 1
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:  "decomment",
		Usage: "remove /* */ comments from C-style source, keeping string and char literals intact",
		UsageText: "decomment [--stats] [file | -]\n" +
			"   decomment batch [--config <file>] [--root <dir>] (--out-dir <dir> | --in-place) [--exclude <pattern>]... [--json] [--report <file>] [pattern ...]\n" +
			"   decomment version",
		Version:         version.Version,
		Reader:          stdin,
		Writer:          stdout,
		ErrWriter:       stderr,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "print byte, line and comment counts to stderr after filtering",
			},
		},
		Action: filterAction,
		Commands: []*cli.Command{
			batchCommand(),
			{
				Name:  "version",
				Usage: "print the decomment version",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprintf(c.App.Writer, "decomment %s\n", version.Version)
					return err
				},
			},
		},
	}
}

// filterAction streams one file, or stdin, to stdout.
func filterAction(c *cli.Context) error {
	if c.NArg() > 1 {
		return cli.Exit("Error: expected at most one input file", 1)
	}
	src := c.App.Reader
	if name := c.Args().First(); name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return cli.Exit(decomment.Diagnostic(err), 1)
		}
		defer f.Close()
		src = f
	}
	stats, err := decomment.Run(c.App.Writer, src)
	if err != nil {
		return cli.Exit(decomment.Diagnostic(err), 1)
	}
	if c.Bool("stats") {
		fmt.Fprintln(c.App.ErrWriter, stats)
	}
	return nil
}
