package ops

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ANSI color escape codes used by trace emitters that colorize their
// output. Exposed as public constants so external tooling can recognize
// and strip or re-theme them.
const (
	ANSIYellow = "\x1b[33m"
	ANSIGreen  = "\x1b[32m"
	ANSIRed    = "\x1b[31m"
	ANSIReset  = "\x1b[0m"
)

// TraceEvent is one of the three structured events LoggingWrapper emits.
type TraceEvent struct {
	// Message is the verbatim trace string fixed by the specification,
	// e.g. "Op 'name' completed in 0.123 seconds".
	Message string
	// Level distinguishes start/success from failure for sinks that want
	// to color or filter by severity.
	Level TraceLevel
}

// TraceLevel is the severity of a TraceEvent.
type TraceLevel int

const (
	// TraceInfo covers both the start and success events.
	TraceInfo TraceLevel = iota
	// TraceWarn covers TimeBoundWrapper's near-timeout warning.
	TraceWarn
	// TraceError covers the failure event.
	TraceError
)

// TraceSink is the pluggable emitter behind LoggingWrapper. The kernel
// treats it as an opaque collaborator: LoggingWrapper only ever computes
// event payloads and forwards them here.
type TraceSink interface {
	Emit(event TraceEvent)
}

// MultiSink fans a single event out to several sinks.
type MultiSink []TraceSink

// Emit implements TraceSink.
func (m MultiSink) Emit(event TraceEvent) {
	for _, sink := range m {
		sink.Emit(event)
	}
}

// NoopSink discards every event. It's the zero-value default so ops can
// be constructed without wiring up logging explicitly.
type NoopSink struct{}

// Emit implements TraceSink.
func (NoopSink) Emit(TraceEvent) {}

// ANSISink colorizes trace events with the ANSI constants above and passes
// each line to a caller-supplied write function, grounded on the teacher's plain fmt-based
// status prints in SagaExecutor.Execute/Rollback. It's a minimal stand-in
// for a console sink: production code is expected to supply its own
// io.Writer-backed sink or use ZapSink below.
type ANSISink struct {
	mu     sync.Mutex
	writer func(string)
}

// NewANSISink creates an ANSISink that forwards colorized lines to write.
func NewANSISink(write func(string)) *ANSISink {
	return &ANSISink{writer: write}
}

// Emit implements TraceSink.
func (s *ANSISink) Emit(event TraceEvent) {
	var color string
	switch event.Level {
	case TraceError:
		color = ANSIRed
	case TraceWarn:
		color = ANSIYellow
	default:
		color = ANSIGreen
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer(fmt.Sprintf("%s%s%s", color, event.Message, ANSIReset))
}

// ZapSink forwards trace events to a structured zap.Logger, grounded on
// theRebelliousNerd-codenerd's use of go.uber.org/zap for the nearest
// thing to a real logging dependency anywhere in the example pack.
type ZapSink struct {
	log *zap.Logger
}

// NewZapSink wraps an existing *zap.Logger.
func NewZapSink(log *zap.Logger) *ZapSink {
	return &ZapSink{log: log}
}

// Emit implements TraceSink.
func (s *ZapSink) Emit(event TraceEvent) {
	switch event.Level {
	case TraceError:
		s.log.Error(event.Message)
	case TraceWarn:
		s.log.Warn(event.Message)
	default:
		s.log.Info(event.Message)
	}
}

var (
	defaultSinkMu sync.Mutex
	defaultSink   TraceSink = NoopSink{}
)

// SetDefaultTraceSink installs the sink used by the Perform façade. Wrappers
// constructed with a nil sink use NoopSink, not this default. It's a
// package-level knob so cmd/opsdemo can route the façade's trace events to
// one place.
func SetDefaultTraceSink(sink TraceSink) {
	defaultSinkMu.Lock()
	defer defaultSinkMu.Unlock()
	defaultSink = sink
}

func defaultTraceSink() TraceSink {
	defaultSinkMu.Lock()
	defer defaultSinkMu.Unlock()
	return defaultSink
}
