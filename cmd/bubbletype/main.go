// Command bubbletype draws bubble letters in the air with a pinch gesture.
//
// Usage:
//
//	bubbletype serve [--config file] [--addr host:port] [--no-tray] [--record file]
//	bubbletype replay [--config file] [--letter L] [--png out.png] recording.jsonl
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "bubbletype",
		Usage:   "Draw bubble letters with your hands",
		Version: version,
		Commands: []*cli.Command{
			serveCommand(),
			replayCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "bubbletype:", err)
		os.Exit(1)
	}
}

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to a YAML config file",
		EnvVars: []string{"BUBBLETYPE_CONFIG"},
	}
}
