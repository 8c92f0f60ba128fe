package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/qubit"
)

type event struct {
	r   *qubit.Result
	err error
}

func start(t *testing.T, path string, opts ...qubit.EnvOption) (<-chan event, context.CancelFunc, <-chan error) {
	t.Helper()
	events := make(chan event, 16)
	w, err := New(path, qubit.DefaultFormat, func(r *qubit.Result, err error) {
		events <- event{r, err}
	}, nil, opts...)
	require.NoError(t, err)
	w.SetDebounce(20 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(cancel)
	return events, cancel, done
}

func next(t *testing.T, events <-chan event) event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("no evaluation")
		return event{}
	}
}

func TestRunEvaluates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.txt")
	require.NoError(t, os.WriteFile(path, []byte("x = 2\nx * 3\n"), 0o644))
	events, cancel, done := start(t, path)

	ev := next(t, events)
	require.NoError(t, ev.err)
	assert.Equal(t, []string{"2", "6"}, ev.r.Outputs())
	assert.Equal(t, 8.0, ev.r.Total)

	require.NoError(t, os.WriteFile(path, []byte("x = 5\nx * 3\n"), 0o644))
	// Writes may arrive as several events; wait for the final content.
	for {
		ev = next(t, events)
		require.NoError(t, ev.err)
		if len(ev.r.Lines) == 2 && ev.r.Outputs()[1] == "15" {
			break
		}
	}
	assert.Equal(t, 20.0, ev.r.Total)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunFreshEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.txt")
	require.NoError(t, os.WriteFile(path, []byte("f(x) = x + k\n"), 0o644))
	events, _, _ := start(t, path, qubit.SetVar("k", 10))
	next(t, events)

	// A definition from the previous pass is not visible.
	require.NoError(t, os.WriteFile(path, []byte("f(1)\nk\n"), 0o644))
	for {
		ev := next(t, events)
		require.NoError(t, ev.err)
		if len(ev.r.Lines) == 2 {
			assert.Equal(t, []string{"-", "10"}, ev.r.Outputs())
			return
		}
	}
}

func TestRunMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "later.txt")
	events, _, _ := start(t, path)
	ev := next(t, events)
	assert.Error(t, ev.err)
	assert.Nil(t, ev.r)

	require.NoError(t, os.WriteFile(path, []byte("1 + 1"), 0o644))
	for {
		ev = next(t, events)
		if ev.err == nil && len(ev.r.Lines) == 1 {
			assert.Equal(t, []string{"2"}, ev.r.Outputs())
			return
		}
	}
}

func TestRunIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calc.txt")
	require.NoError(t, os.WriteFile(path, []byte("1"), 0o644))
	events, _, _ := start(t, path)
	next(t, events)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("2"), 0o644))
	select {
	case ev := <-events:
		t.Errorf("unexpected evaluation %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNewBadDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "calc.txt"), qubit.DefaultFormat, func(*qubit.Result, error) {}, nil)
	assert.Error(t, err)
}
