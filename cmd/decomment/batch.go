package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/strongdm/decomment/internal/batch"
	"github.com/strongdm/decomment/internal/config"
)

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "strip comments from every file matching the include patterns",
		ArgsUsage: "[pattern ...]",
		Description: "Patterns use ** globs and are matched relative to --root. Positional patterns\n" +
			"replace the config's include list. Each output is written to a temp file and\n" +
			"renamed, so a file with an unterminated comment never overwrites anything.\n" +
			"Exits 1 if any file failed.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML or JSON run config",
				EnvVars: []string{"DECOMMENT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "root",
				Usage:   "directory patterns are matched against (default: config root or .)",
				EnvVars: []string{"DECOMMENT_ROOT"},
			},
			&cli.StringSliceFlag{
				Name:    "exclude",
				Usage:   "pattern to skip; repeatable",
				EnvVars: []string{"DECOMMENT_EXCLUDE"},
			},
			&cli.StringFlag{
				Name:    "out-dir",
				Aliases: []string{"o"},
				Usage:   "write outputs under this directory, mirroring input paths",
				EnvVars: []string{"DECOMMENT_OUT_DIR"},
			},
			&cli.BoolFlag{
				Name:  "in-place",
				Usage: "replace each input file with its filtered output",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the report as JSON instead of a table",
			},
			&cli.StringFlag{
				Name:    "report",
				Usage:   "also write the JSON report to this file",
				EnvVars: []string{"DECOMMENT_REPORT"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "print one progress line per file to stderr",
			},
		},
		Action: batchAction,
	}
}

func batchAction(c *cli.Context) error {
	cfg := config.Default()
	if p := c.String("config"); p != "" {
		loaded, err := config.LoadRunConfigFile(p)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}
		cfg = loaded
	}
	if err := applyBatchFlags(c, cfg); err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	if err := config.Validate(cfg); err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	opts := batch.Options{
		Root:    cfg.Root,
		Include: cfg.Include,
		Exclude: cfg.Exclude,
		OutDir:  cfg.Output.Dir,
		InPlace: cfg.Output.InPlace,
	}
	if c.Bool("verbose") {
		opts.Progress = c.App.ErrWriter
	}
	rep, runErr := batch.Run(c.Context, opts)
	if rep == nil {
		return cli.Exit(fmt.Sprintf("Error: %v", runErr), 1)
	}

	if c.Bool("json") {
		if err := rep.WriteJSON(c.App.Writer); err != nil {
			return cli.Exit(fmt.Sprintf("Error: json encode: %v", err), 1)
		}
	} else {
		rep.WriteTable(c.App.Writer)
	}
	if cfg.Report.Path != "" {
		if err := rep.WriteFile(cfg.Report.Path); err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}
	}
	if runErr != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", runErr), 1)
	}
	if rep.Failed() > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

// applyBatchFlags layers explicitly set flags and positional patterns over
// cfg.
func applyBatchFlags(c *cli.Context, cfg *config.RunConfigFile) error {
	if c.IsSet("out-dir") && c.IsSet("in-place") {
		return fmt.Errorf("--out-dir and --in-place are mutually exclusive")
	}
	if c.IsSet("root") {
		cfg.Root = c.String("root")
	}
	if c.IsSet("exclude") {
		cfg.Exclude = c.StringSlice("exclude")
	}
	if c.IsSet("out-dir") {
		cfg.Output.Dir = c.String("out-dir")
		cfg.Output.InPlace = false
	}
	if c.IsSet("in-place") {
		cfg.Output.InPlace = c.Bool("in-place")
		if cfg.Output.InPlace {
			cfg.Output.Dir = ""
		}
	}
	if c.IsSet("report") {
		cfg.Report.Path = c.String("report")
	}
	if c.NArg() > 0 {
		cfg.Include = c.Args().Slice()
	}
	return nil
}
