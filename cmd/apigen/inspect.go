package main

import (
	"fmt"

	"github.com/bluesky-social/apigen/apischema"

	"github.com/urfave/cli/v2"
)

var cmdInspect = &cli.Command{
	Name:      "inspect",
	Usage:     "print the module, type and function tree of an API reference",
	ArgsUsage: "<schema>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "yaml",
			Usage: "parse the schema as YAML regardless of its name",
		},
	},
	Action: func(cctx *cli.Context) error {
		if cctx.Args().Len() != 1 {
			return fmt.Errorf("expected a <schema> argument")
		}
		ref, err := loadReference(cctx, cctx.Args().First())
		if err != nil {
			return err
		}
		fmt.Fprint(cctx.App.Writer, apischema.Tree(ref).String())
		return nil
	},
}
