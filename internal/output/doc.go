// Package output provides formatters for displaying fanout run results.
//
// Every formatter renders the outcomes of one run in hostname order. The package
// supports four formats behind a single interface.
//
// # Basic Usage
//
//	formatter := output.NewFormatter(output.FormatTable)
//
//	// Format the outcomes of a run
//	results, _ := dispatcher.Run(ctx, cfg)
//	formatter.FormatRun(os.Stdout, results)
//
// # Options
//
// Formatters can be configured with functional options:
//
//	formatter := output.NewFormatter(
//	    output.FormatText,
//	    output.WithErrWriter(os.Stderr),
//	)
//
// # Formatters
//
// Text Formatter (default):
//   - One line per host: "Command completion: [stdout: '...', stderr: '...']"
//     for commands that ran, "Command error: ..." for everything else
//   - Error lines can be routed to a separate writer, usually stderr
//
// Table Formatter:
//   - Borderless tables with tab-separated columns
//   - HOST, STATUS, EXIT and DURATION columns; wide mode adds COMMAND and OUTPUT
//   - Summary line with success, failure and timeout counts
//
// JSON and YAML Formatters:
//   - A list of records with host, command, status, stdout, stderr, exitCode,
//     error and duration fields
//   - exitCode is present only for commands that ran to completion
//
// # Color Support
//
// Colors are automatically enabled for TTY outputs and can be disabled with
// WithNoColor(true). Non-zero exits, timeouts and cancellations are shown in the
// warning color; launch failures in the error color.
package output
