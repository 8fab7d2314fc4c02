package query

import (
	"sort"
	"sync"
)

type TraceEventKind string

const (
	TraceEventConsideredSources TraceEventKind = "considered_sources"
	TraceEventUsedSources       TraceEventKind = "used_sources"
)

// TraceEvent is an extensible event envelope for query tracing.
// Additive changes to this struct are backward compatible for implementers.
type TraceEvent struct {
	Kind        TraceEventKind
	SourceFiles []string
}

// Tracer is a sink for query tracing events.
//
// Implementers can forward events to logs, telemetry, or custom
// post-processing pipelines.
type Tracer interface {
	Record(event TraceEvent)
}

func RecordConsideredSources(t Tracer, files ...string) {
	if t == nil {
		return
	}
	t.Record(TraceEvent{Kind: TraceEventConsideredSources, SourceFiles: files})
}

func RecordUsedSources(t Tracer, files ...string) {
	if t == nil {
		return
	}
	t.Record(TraceEvent{Kind: TraceEventUsedSources, SourceFiles: files})
}

// QueryTrace collects which source files retrieval considered and which
// ones made it into the answer context. It backs the "sources" field of
// query responses.
//
// QueryTrace is safe for concurrent use.
type QueryTrace struct {
	mu sync.Mutex

	consideredSources map[string]struct{}
	usedSources       map[string]struct{}
}

type QueryTraceSnapshot struct {
	ConsideredSources []string
	UsedSources       []string
}

func NewQueryTrace() *QueryTrace {
	return &QueryTrace{
		consideredSources: make(map[string]struct{}),
		usedSources:       make(map[string]struct{}),
	}
}

func (t *QueryTrace) Record(event TraceEvent) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch event.Kind {
	case TraceEventConsideredSources:
		for _, file := range event.SourceFiles {
			if file == "" {
				continue
			}
			t.consideredSources[file] = struct{}{}
		}
	case TraceEventUsedSources:
		for _, file := range event.SourceFiles {
			if file == "" {
				continue
			}
			t.usedSources[file] = struct{}{}
		}
	}
}

func (t *QueryTrace) Snapshot() QueryTraceSnapshot {
	if t == nil {
		return QueryTraceSnapshot{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	s := QueryTraceSnapshot{
		ConsideredSources: make([]string, 0, len(t.consideredSources)),
		UsedSources:       make([]string, 0, len(t.usedSources)),
	}

	for file := range t.consideredSources {
		s.ConsideredSources = append(s.ConsideredSources, file)
	}
	for file := range t.usedSources {
		s.UsedSources = append(s.UsedSources, file)
	}

	sort.Strings(s.ConsideredSources)
	sort.Strings(s.UsedSources)

	return s
}
