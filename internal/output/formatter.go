package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/aryankumar/fanout/internal/executor"
)

// Format represents the output format type
type Format string

const (
	// FormatText prints one line per host in the classic completion/error style
	FormatText Format = "text"
	// FormatTable outputs outcomes in a borderless table
	FormatTable Format = "table"
	// FormatJSON outputs outcomes in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs outcomes in YAML format
	FormatYAML Format = "yaml"
)

// Formats lists every supported format in the order shown in help text
var Formats = []Format{FormatText, FormatTable, FormatJSON, FormatYAML}

// ParseFormat converts a flag value into a Format
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}

	names := make([]string, len(Formats))
	for i, known := range Formats {
		names[i] = string(known)
	}
	return "", fmt.Errorf("unknown output format %q (expected one of %s)", s, strings.Join(names, ", "))
}

// Tabular is data that lays itself out as rows under fixed headers.
// Table and text formats print the rows; JSON and YAML encode the value itself.
type Tabular interface {
	Headers() []string
	Rows() [][]string
}

// Formatter defines the interface for output formatting
type Formatter interface {
	// Format outputs a single data item to the writer
	Format(w io.Writer, data interface{}) error

	// FormatRun outputs the outcomes of one run, in hostname order
	FormatRun(w io.Writer, results []executor.Outcome) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// NoColor disables color output
	NoColor bool

	// NoHeaders disables table headers
	NoHeaders bool

	// Wide enables wide output with additional columns
	Wide bool

	// ErrWriter receives per-host error lines in text format. Nil means the main writer.
	ErrWriter io.Writer
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// WithWide enables wide output
func WithWide(wide bool) Option {
	return func(o *Options) {
		o.Wide = wide
	}
}

// WithErrWriter sends text-format error lines to w
func WithErrWriter(w io.Writer) Option {
	return func(o *Options) {
		o.ErrWriter = w
	}
}

// NewFormatter creates a new formatter based on the specified format
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatTable:
		return NewTableFormatter(options)
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatText:
		fallthrough
	default:
		return NewTextFormatter(options)
	}
}
