package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-onptbwt/fasta"
	"github.com/forestrie/go-onptbwt/progress"
	"github.com/forestrie/go-onptbwt/rlbwt"
	"github.com/forestrie/go-onptbwt/runstore"
	"github.com/forestrie/go-onptbwt/verify"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	serviceName = "onptbwt"
	// feedChunk bytes are fed between cancellation checks.
	feedChunk = 64 * 1024
)

var ErrVerification = errors.New("verification failed")

// Run is the command line entry point. It returns the process exit code:
// 0 on success, 1 on failure, 2 for usage errors.
func Run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	cfg, fs, err := ParseArgs(serviceName, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(stdout)
			fs.Usage()
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(stderr)
		fs.Usage()
		return 2
	}

	logger.New(cfg.LogLevel)
	defer logger.OnExit()
	log := logger.Sugar.WithServiceName(serviceName)

	if err := Build(ctx, cfg, log, stdout); err != nil {
		return fail(log, stderr, err)
	}
	return 0
}

// fail logs err at error level, repeats it on stderr and returns exit code 1.
func fail(log progress.Logger, stderr io.Writer, err error) int {
	log.Errorf("failed: %v", err)
	_, _ = fmt.Fprintln(stderr, err)
	return 1
}

// ExitCode returns 130 once ctx has been cancelled, whatever code the
// interrupted run produced, and code otherwise.
func ExitCode(ctx context.Context, code int) int {
	if ctx.Err() != nil {
		return 130
	}
	return code
}

// Build runs one build described by cfg, writing statistics to stdout.
func Build(ctx context.Context, cfg Config, log progress.Logger, stdout io.Writer) error {
	runID := uuid.NewString()
	log.Infof("run %s: loading %s (%s order)", runID, cfg.Input, cfg.Order)

	text, err := fasta.Load(cfg.Input, cfg.Order)
	if err != nil {
		return err
	}
	log.Infof("run %s: %d records, %d bytes", runID, text.Records, len(text.Data))

	var metrics *progress.Metrics
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics = progress.NewMetrics(reg)
		stop, err := serveMetrics(cfg.MetricsAddr, reg, log)
		if err != nil {
			return err
		}
		defer stop()
	}

	engine := rlbwt.New(rlbwt.WithStoreOptions(runstore.WithMaxRunLength(cfg.MaxRunLength)))
	reporter := progress.NewReporter(log, engine,
		progress.WithEvery(cfg.ProgressEvery), progress.WithMetrics(metrics))
	for off := 0; off < len(text.Data); off += feedChunk {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, _ = reporter.Write(text.Data[off:min(off+feedChunk, len(text.Data))])
	}
	reporter.Done(engine.Runs())

	if cfg.Output != "" {
		if err := writeBWT(cfg.Output, engine); err != nil {
			return err
		}
		log.Infof("run %s: wrote %d bytes to %s", runID, engine.Len(), cfg.Output)
	}

	if err := engine.WriteStatistics(stdout, cfg.Verbose); err != nil {
		return err
	}

	if cfg.Check {
		return check(cfg, runID, text.Data, engine, log)
	}
	return nil
}

func writeBWT(path string, engine *rlbwt.Engine) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if _, err := engine.WriteBWT(w); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func check(cfg Config, runID string, original []byte, engine *rlbwt.Engine, log progress.Logger) error {
	decoded, err := engine.Decompress()
	report := verify.Compare(original, decoded, engine.State())
	report.RunID = runID

	switch {
	case err != nil:
		report.Match = false
		err = fmt.Errorf("%w: %w", ErrVerification, err)
	case !report.Match:
		err = fmt.Errorf("%w: %w", ErrVerification, report.Err())
	default:
		if rerr := verify.Records(original, decoded); rerr != nil {
			err = fmt.Errorf("%w: %w", ErrVerification, rerr)
		}
	}
	if err == nil {
		log.Infof("run %s: check passed, %d bytes decoded", runID, len(decoded))
		return nil
	}

	if cfg.MismatchReport != "" {
		data, eerr := verify.EncodeReport(report)
		if eerr != nil {
			return errors.Join(err, eerr)
		}
		if werr := os.WriteFile(cfg.MismatchReport, data, 0o644); werr != nil {
			return errors.Join(err, werr)
		}
		log.Infof("run %s: mismatch report written to %s", runID, cfg.MismatchReport)
	}
	return err
}

// serveMetrics listens on addr and serves reg until the returned stop
// function is called.
func serveMetrics(addr string, reg *prometheus.Registry, log progress.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	log.Infof("serving metrics on %s", ln.Addr())
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server: %v", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
