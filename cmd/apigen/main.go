package main

import (
	"fmt"
	"os"

	"github.com/bluesky-social/apigen/util/cliutil"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(-1)
	}
}

func newApp() *cli.App {
	app := &cli.App{
		Name:    "apigen",
		Usage:   "generate Go client packages from an API reference document",
		Version: versioninfo.Short(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log verbosity level (eg: warn, info, debug)",
				EnvVars: []string{"APIGEN_LOG_LEVEL", "LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "log output format (text or json)",
				EnvVars: []string{"APIGEN_LOG_FMT"},
			},
		},
		Before: func(cctx *cli.Context) error {
			_, err := cliutil.SetupSlog(cliutil.LogOptions{
				LogLevel:  cctx.String("log-level"),
				LogFormat: cctx.String("log-format"),
			})
			return err
		},
	}
	app.Commands = []*cli.Command{
		cmdGenerate,
		cmdInspect,
	}
	return app
}
