package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// recorder counts events so tests can see which hooks are installed.
type recorder struct {
	NoopPipelineHooks
	NoopCacheHooks
	NoopHTTPHooks
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) OnNormalizeStart(context.Context, int)  { r.add("normalize") }
func (r *recorder) OnCacheHit(_ context.Context, k string) { r.add("hit:" + k) }
func (r *recorder) OnRequest(_ context.Context, m, _ string) {
	r.add("request:" + m)
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		install func(*recorder)
		emit    func()
		want    string
	}{
		{"pipeline", func(r *recorder) { SetPipelineHooks(r) }, func() { Pipeline().OnNormalizeStart(ctx, 10) }, "normalize"},
		{"cache", func(r *recorder) { SetCacheHooks(r) }, func() { Cache().OnCacheHit(ctx, "layout") }, "hit:layout"},
		{"http", func(r *recorder) { SetHTTPHooks(r) }, func() { HTTP().OnRequest(ctx, "POST", "/layout") }, "request:POST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer Reset()
			r := &recorder{}

			tt.emit()
			if len(r.events) != 0 {
				t.Fatalf("events before install = %v", r.events)
			}

			tt.install(r)
			tt.emit()
			if len(r.events) != 1 || r.events[0] != tt.want {
				t.Fatalf("events = %v, want [%s]", r.events, tt.want)
			}

			Reset()
			tt.emit()
			if len(r.events) != 1 {
				t.Errorf("events after Reset = %v", r.events)
			}
		})
	}
}

func TestSetNilIsIgnored(t *testing.T) {
	defer Reset()
	r := &recorder{}
	SetPipelineHooks(r)
	SetCacheHooks(r)
	SetHTTPHooks(r)

	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	SetHTTPHooks(nil)

	if Pipeline() != PipelineHooks(r) || Cache() != CacheHooks(r) || HTTP() != HTTPHooks(r) {
		t.Error("nil hooks replaced the installed ones")
	}
}

func TestResetInstallsNoop(t *testing.T) {
	SetPipelineHooks(&recorder{})
	SetCacheHooks(&recorder{})
	SetHTTPHooks(&recorder{})
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T after Reset", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T after Reset", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T after Reset", HTTP())
	}
}

func TestRegistryConcurrentUse(t *testing.T) {
	defer Reset()
	ctx := context.Background()
	r := &recorder{}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetCacheHooks(r)
		}()
		go func() {
			defer wg.Done()
			Cache().OnCacheHit(ctx, "artifact")
		}()
	}
	wg.Wait()
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnNormalizeComplete(ctx, "nested-blocks", 7, time.Millisecond, nil)
	h.OnLayoutComplete(ctx, 4, time.Millisecond, errors.New("boom"))
	h.OnCacheMiss(ctx, "layout")
	h.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"nested-blocks", "blocks=7", "boom", "cache miss", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksSatisfyInterfaces(t *testing.T) {
	var (
		_ PipelineHooks = (*LogHooks)(nil)
		_ CacheHooks    = (*LogHooks)(nil)
		_ HTTPHooks     = (*LogHooks)(nil)
	)
	if NewLogHooks(nil) == nil {
		t.Error("NewLogHooks(nil) returned nil")
	}
}
