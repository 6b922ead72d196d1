package app

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/forestrie/go-onptbwt/fasta"
	"github.com/forestrie/go-onptbwt/progress"
	"github.com/forestrie/go-onptbwt/runstore"
)

var ErrUsage = errors.New("usage")

type Config struct {
	Input          string
	Output         string
	Check          bool
	Order          fasta.Order
	ProgressEvery  int
	LogLevel       string
	MismatchReport string
	MetricsAddr    string
	Verbose        bool
	MaxRunLength   uint64
}

// Validate reports the first inconsistency in c.
func (c Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("%w: -i is required", ErrUsage)
	}
	if c.ProgressEvery <= 0 {
		return fmt.Errorf("%w: -progress-every must be positive", ErrUsage)
	}
	if c.MaxRunLength == 0 {
		return fmt.Errorf("%w: -max-run must be positive", ErrUsage)
	}
	if c.MismatchReport != "" && !c.Check {
		return fmt.Errorf("%w: -mismatch-report needs -check", ErrUsage)
	}
	return nil
}

// NewFlagSet binds the command line flags to cfg. The order flag is held in
// *order until ParseArgs resolves it.
func NewFlagSet(name string, cfg *Config, order *string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.Input, "i", "", "input FASTA file, optionally gzip compressed, '-' for stdin")
	fs.StringVar(&cfg.Output, "o", "", "write the transform to this file")
	fs.BoolVar(&cfg.Check, "check", false, "invert the transform and compare it with the input")
	fs.StringVar(order, "order", fasta.Reverse.String(), "record order fed to the builder: reverse or forward")
	fs.IntVar(&cfg.ProgressEvery, "progress-every", progress.DefaultEvery, "log progress every N records")
	fs.StringVar(&cfg.LogLevel, "log-level", "INFO", "log level (NOOP, DEBUG, INFO, WARN, ERROR)")
	fs.StringVar(&cfg.MismatchReport, "mismatch-report", "", "write a CBOR report here when -check fails")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on host:port")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "print detailed statistics")
	fs.Uint64Var(&cfg.MaxRunLength, "max-run", runstore.DefaultMaxRunLength, "longest run stored before it is split")
	fs.Usage = func() {
		out := fs.Output()
		_, _ = fmt.Fprintf(out, "Usage: %s -i input.fa [-o out.bwt] [-check] [flags]\n\n", name)
		_, _ = fmt.Fprintln(out, "Builds the run-length BWT of a FASTA collection online.")
		_, _ = fmt.Fprintln(out)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs parses argv into a validated Config. flag.ErrHelp is returned
// unwrapped for -h.
func ParseArgs(name string, argv []string) (Config, *flag.FlagSet, error) {
	var cfg Config
	var order string
	fs := NewFlagSet(name, &cfg, &order)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, fs, err
		}
		return cfg, fs, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return cfg, fs, fmt.Errorf("%w: unexpected arguments %q", ErrUsage, fs.Args())
	}
	o, err := fasta.ParseOrder(order)
	if err != nil {
		return cfg, fs, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	cfg.Order = o
	return cfg, fs, cfg.Validate()
}
