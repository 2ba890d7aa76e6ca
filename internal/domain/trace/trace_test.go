package trace_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/sophialabs/inkwell/internal/domain/trace"
)

func TestLog_RecordAndRecent(t *testing.T) {
	l := trace.NewLog(3)

	if l.Count() != 0 {
		t.Fatalf("expected count 0, got %d", l.Count())
	}

	l.Record(trace.Entry{TraceID: "a"})
	l.Record(trace.Entry{TraceID: "b"})

	entries := l.Recent(5)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].TraceID != "a" || entries[1].TraceID != "b" {
		t.Errorf("unexpected order: %v", entries)
	}
}

func TestLog_Wraparound(t *testing.T) {
	l := trace.NewLog(3)
	for i := 0; i < 5; i++ {
		l.Record(trace.Entry{TraceID: fmt.Sprintf("t%d", i)})
	}

	if l.Count() != 3 {
		t.Fatalf("expected count 3, got %d", l.Count())
	}
	entries := l.Recent(3)
	if entries[0].TraceID != "t2" || entries[2].TraceID != "t4" {
		t.Errorf("unexpected entries after wraparound: %v", entries)
	}
}

func TestLog_RecentZero(t *testing.T) {
	l := trace.NewLog(3)
	l.Record(trace.Entry{TraceID: "a"})

	if got := l.Recent(0); got != nil {
		t.Errorf("expected nil for n=0, got %v", got)
	}
}

func TestLog_ConcurrentAccess(t *testing.T) {
	l := trace.NewLog(16)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.Record(trace.Entry{TraceID: fmt.Sprintf("%d-%d", n, j)})
				l.Recent(4)
			}
		}(i)
	}
	wg.Wait()

	if l.Count() != 16 {
		t.Errorf("expected full log, got %d", l.Count())
	}
}
