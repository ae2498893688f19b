package main

import (
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/bluesky-social/apigen/apischema"
	"github.com/bluesky-social/apigen/generator"

	"github.com/urfave/cli/v2"
)

var cmdGenerate = &cli.Command{
	Name:      "generate",
	Usage:     "generate one package per module of an API reference",
	ArgsUsage: "<schema> <outdir>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to YAML generator config",
			EnvVars: []string{"APIGEN_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "import-prefix",
			Usage:   "import path the generated packages live under (overrides config)",
			EnvVars: []string{"APIGEN_IMPORT_PREFIX"},
		},
		&cli.StringFlag{
			Name:  "runtime-import",
			Usage: "import path of the runtime package generated code calls into (overrides config)",
		},
		&cli.BoolFlag{
			Name:  "yaml",
			Usage: "parse the schema as YAML regardless of its name",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "print the files that would be written instead of writing them",
		},
	},
	Action: runGenerate,
}

func loadConfig(cctx *cli.Context) (*generator.Config, error) {
	cfg := generator.DefaultConfig()
	if p := cctx.String("config"); p != "" {
		var err error
		cfg, err = generator.LoadConfig(p)
		if err != nil {
			return nil, err
		}
	}
	if v := cctx.String("import-prefix"); v != "" {
		cfg.ImportPrefix = v
	}
	if v := cctx.String("runtime-import"); v != "" {
		cfg.RuntimeImport = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadReference(cctx *cli.Context, resource string) (*apischema.Reference, error) {
	opts := []apischema.LoadOption{apischema.WithLogger(slog.Default())}
	if cctx.Bool("yaml") {
		opts = append(opts, apischema.WithYAML(true))
	}
	return apischema.Load(cctx.Context, resource, opts...)
}

func runGenerate(cctx *cli.Context) error {
	if cctx.Args().Len() != 2 {
		return fmt.Errorf("expected <schema> and <outdir> arguments")
	}
	schema := cctx.Args().Get(0)
	outdir := cctx.Args().Get(1)

	cfg, err := loadConfig(cctx)
	if err != nil {
		return err
	}
	cfg.SourceName = path.Base(strings.ReplaceAll(schema, "\\", "/"))

	ref, err := loadReference(cctx, schema)
	if err != nil {
		return err
	}

	g, err := generator.New(cfg, slog.Default())
	if err != nil {
		return err
	}
	outs, err := g.Run(ref)
	if err != nil {
		return err
	}

	if cctx.Bool("dry-run") {
		for _, o := range outs {
			fmt.Fprintf(cctx.App.Writer, "%s\t%s\t%d bytes\n", o.Path, o.ImportPath, len(o.Source))
		}
		return nil
	}
	if err := generator.WriteOutputs(outdir, outs); err != nil {
		return err
	}
	slog.Info("wrote packages", "dir", outdir, "count", len(outs))
	return nil
}
