// Command vanvinkl-dspbench drives a dsp.Processor over a raw interleaved
// PCM stream block by block, printing a running meter summary followed by
// a final report.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	ctx := context.Background()

	appl := &cli.Command{
		Name:    "vanvinkl-dspbench",
		Usage:   "Run the real-time DSP chain over a raw PCM stream and report its meters",
		Version: "0.1.0",
		Commands: []*cli.Command{
			runCommand(),
		},
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}
