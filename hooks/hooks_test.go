package hooks_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Skryldev/imageio/core"
	"github.com/Skryldev/imageio/hooks"
)

func TestInMemoryMetricsCounts(t *testing.T) {
	m := hooks.NewInMemoryMetrics()

	m.RecordScan(3)
	m.RecordModuleLoad("/p/a.imageio.so", 5*time.Millisecond, nil)
	m.RecordModuleLoad("/p/b.imageio.so", time.Millisecond, errors.New("not a module"))
	m.RecordResolve("jpeg", true)
	m.RecordResolve("xyz", false)
	m.RecordError("registry.catalog", "registry")

	snap := m.Snapshot()
	if snap.Scans != 1 {
		t.Errorf("scans: got %d, want 1", snap.Scans)
	}
	if snap.LoadCalls != 2 || snap.LoadErrors != 1 {
		t.Errorf("loads: got %d/%d errors, want 2/1", snap.LoadCalls, snap.LoadErrors)
	}
	if snap.ResolveHits != 1 || snap.ResolveMiss != 1 {
		t.Errorf("resolves: got %d hits %d misses, want 1/1", snap.ResolveHits, snap.ResolveMiss)
	}
	if snap.ErrorsByCat["registry"] != 1 {
		t.Errorf("errors by category: %v", snap.ErrorsByCat)
	}
}

func TestDefaultLoggerFallsBackToInfo(t *testing.T) {
	if l := hooks.NewDefaultLogger("nonsense"); l == nil {
		t.Fatal("expected a usable logger for unknown level")
	}
}

type recordingLogger struct {
	debugs int
	infos  int
}

func (r *recordingLogger) Debug(string, ...interface{}) { r.debugs++ }
func (r *recordingLogger) Info(string, ...interface{})  { r.infos++ }
func (r *recordingLogger) Warn(string, ...interface{})  {}
func (r *recordingLogger) Error(string, ...interface{}) {}

func TestLoggingHookLevels(t *testing.T) {
	logger := &recordingLogger{}
	h := hooks.NewLoggingHook(logger)

	h.BeforeLoad("/p/a.imageio.so")
	h.AfterLoad("/p/a.imageio.so", core.Descriptor{FormatName: "a"}, nil)
	h.AfterLoad("/p/b.imageio.so", core.Descriptor{}, errors.New("not a module"))

	if logger.infos != 1 {
		t.Errorf("successful loads logged at info: got %d, want 1", logger.infos)
	}
	// Load failures are expected; they stay at debug.
	if logger.debugs != 2 {
		t.Errorf("debug events: got %d, want 2", logger.debugs)
	}
}
