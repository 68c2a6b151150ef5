package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/MrSnakeDoc/prefire/internal/version"
)

func main() {
	app := &cli.Command{
		Name:    "prefire-cli",
		Usage:   "Search pre-FIRE Magic cards from the terminal",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print raw JSON instead of styled output",
			},
		},
		Commands: []*cli.Command{
			searchCommand(),
			queryCommand(),
			editionsCommand(),
			pagesCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
