package cmd

import (
	"github.com/urfave/cli"

	"github.com/df07/go-tiled-pathtracer/pkg/log"
)

var logger = log.New("pathtracer")

// setupLogging applies --log-level, then lets -v and -vv raise verbosity.
func setupLogging(ctx *cli.Context) error {
	level := log.Notice
	if name := ctx.GlobalString("log-level"); name != "" {
		var err error
		if level, err = log.ParseLevel(name); err != nil {
			return err
		}
	}

	if ctx.GlobalBool("v") {
		level = min(level, log.Info)
	}
	if ctx.GlobalBool("vv") {
		level = log.Debug
	}

	log.SetLevel(level)
	return nil
}
