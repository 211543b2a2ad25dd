package log

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format is the encoding used for log lines.
type Format string

const (
	FormatJSON    Format = "JSON"
	FormatConsole Format = "Console"
)

// AvailableFormats lists every Format accepted by --log-format.
var AvailableFormats = []Format{FormatJSON, FormatConsole}

func (f *Format) String() string {
	return string(*f)
}

func (f *Format) Set(s string) error {
	for _, format := range AvailableFormats {
		if strings.EqualFold(s, string(format)) {
			*f = format
			return nil
		}
	}

	return fmt.Errorf("invalid log format %q, must be one of %v", s, AvailableFormats)
}

func (f *Format) Type() string {
	return "string"
}

// Options holds the logging flags shared by all binaries.
type Options struct {
	Debug  bool
	Format Format
}

// NewDefaultOptions returns console logging at info level.
func NewDefaultOptions() Options {
	return Options{
		Debug:  false,
		Format: FormatConsole,
	}
}

// AddFlags registers the logging flags on fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Debug, "log-debug", o.Debug, "Enables more verbose logging")
	fs.Var(&o.Format, "log-format", fmt.Sprintf("Log format, one of %v", AvailableFormats))
}

// New returns a logger writing to stderr. Stdout is left to the commands'
// own human-readable output.
func New(debug bool, format Format) *zap.Logger {
	return NewWithSink(debug, format, zapcore.Lock(os.Stderr))
}

// NewWithSink is New with a caller-provided destination.
func NewWithSink(debug bool, format Format, sink zapcore.WriteSyncer) *zap.Logger {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if debug {
		level.SetLevel(zap.DebugLevel)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if format == FormatJSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	opts := []zap.Option{zap.ErrorOutput(sink)}
	if debug {
		opts = append(opts, zap.AddCaller())
	}

	return zap.New(zapcore.NewCore(enc, sink, level), opts...)
}
