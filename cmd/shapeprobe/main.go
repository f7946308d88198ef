// Command shapeprobe prints the shapes of arrays stored in LIBERO HDF5
// dataset files. It loads config from defaults, shapeprobe.yaml, SHAPEPROBE_*
// environment variables and flags, then either probes folders or runs the
// dataset check.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cuiluyi/rlds-dataset-builder/internal/dataset"
)

// version and commit are set at build time via -ldflags (e.g. Makefile).
var (
	version = "0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(os.Stdout, dataset.HDF5Opener{})
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "shapeprobe: %v\n", err)
		}
		return 1
	}
	return 0
}
