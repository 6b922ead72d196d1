package progress

import (
	"time"

	"github.com/forestrie/go-onptbwt/fasta"
)

// DefaultEvery is the number of records between progress lines.
const DefaultEvery = 10000

// Logger is the subset of logger.Logger a build logs through.
type Logger interface {
	Infof(format string, args ...any)
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}

// Sink is fed every byte that reaches the builder. rlbwt.Engine satisfies it.
type Sink interface {
	Extend(c byte)
}

type ReporterOptions struct {
	Every   int
	Clock   Clock
	Metrics *Metrics
}

type ReporterOption func(*ReporterOptions)

func WithEvery(n int) ReporterOption {
	return func(o *ReporterOptions) { o.Every = n }
}

func WithClock(c Clock) ReporterOption {
	return func(o *ReporterOptions) { o.Clock = c }
}

// WithMetrics has the reporter publish its counts.
func WithMetrics(m *Metrics) ReporterOption {
	return func(o *ReporterOptions) { o.Metrics = m }
}

// Reporter forwards bytes to a Sink, logging a line every Every records with
// the record count, byte count and elapsed milliseconds.
type Reporter struct {
	opts  ReporterOptions
	log   Logger
	sink  Sink
	start time.Time

	bytes   uint64
	records uint64
	// bytes not yet added to the metrics counter
	pending uint64
}

func NewReporter(log Logger, sink Sink, opts ...ReporterOption) *Reporter {
	o := ReporterOptions{Every: DefaultEvery, Clock: SystemClock}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Every <= 0 {
		o.Every = DefaultEvery
	}
	return &Reporter{opts: o, log: log, sink: sink, start: o.Clock.Now()}
}

// Extend feeds c to the sink and accounts for it.
func (r *Reporter) Extend(c byte) {
	r.sink.Extend(c)
	r.bytes++
	r.pending++
	if c != fasta.Separator {
		return
	}
	r.records++
	if r.records%uint64(r.opts.Every) == 0 {
		r.flushMetrics()
		r.log.Infof("%d records, %d bytes, %d ms", r.records, r.bytes, r.Elapsed().Milliseconds())
	}
}

// Write feeds every byte of p.
func (r *Reporter) Write(p []byte) (int, error) {
	for _, c := range p {
		r.Extend(c)
	}
	return len(p), nil
}

func (r *Reporter) Bytes() uint64   { return r.bytes }
func (r *Reporter) Records() uint64 { return r.records }

func (r *Reporter) Elapsed() time.Duration {
	return r.opts.Clock.Now().Sub(r.start)
}

// Done logs the final totals and returns the elapsed build time. runs is the
// run count of the finished transform.
func (r *Reporter) Done(runs uint64) time.Duration {
	elapsed := r.Elapsed()
	r.flushMetrics()
	if m := r.opts.Metrics; m != nil {
		m.Runs.Set(float64(runs))
		m.BuildSeconds.Set(elapsed.Seconds())
	}
	r.log.Infof("done: %d records, %d bytes, %d runs, %d ms", r.records, r.bytes, runs, elapsed.Milliseconds())
	return elapsed
}

func (r *Reporter) flushMetrics() {
	m := r.opts.Metrics
	if m == nil {
		return
	}
	m.BytesExtended.Add(float64(r.pending))
	m.Records.Set(float64(r.records))
	r.log.Debugf("metrics: +%d bytes", r.pending)
	r.pending = 0
}
