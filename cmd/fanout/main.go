package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aryankumar/fanout/internal/cli"
	"github.com/aryankumar/fanout/internal/util"
)

// exitInterrupted matches the shell convention for SIGINT
const exitInterrupted = 130

func main() {
	// Setup signal handling for graceful shutdown
	ctx, stop := util.SetupSignalHandler(slog.Default())

	err := cli.Execute(ctx)
	interrupted := ctx.Err() != nil
	stop()

	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
	if interrupted {
		os.Exit(exitInterrupted)
	}
}

// printError writes err and every error it wraps, one per line
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", err)
	for _, cause := range util.Causes(err) {
		fmt.Fprintf(w, "- Caused by: %s\n", cause)
	}
	if hint := util.FriendlyError(err); hint != err.Error() {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}
