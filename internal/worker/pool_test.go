package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agenthands/refinery/internal/api"
	"github.com/agenthands/refinery/internal/config"
)

type queueSource struct {
	mu    sync.Mutex
	tasks []api.Task
	err   error
}

func (q *queueSource) ClaimTasks(ctx context.Context, queue string, max int) ([]api.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return nil, q.err
	}
	if len(q.tasks) == 0 {
		return nil, nil
	}
	task := q.tasks[0]
	q.tasks = q.tasks[1:]
	return []api.Task{task}, nil
}

type recordingProcessor struct {
	mu       sync.Mutex
	seen     []string
	failures map[string]int
}

func (r *recordingProcessor) Process(ctx context.Context, task api.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, task.TaskID)
	if n := r.failures[task.TaskID]; n > 0 {
		r.failures[task.TaskID] = n - 1
		return errors.New("transient failure")
	}
	return nil
}

func (r *recordingProcessor) processed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

func testConfig() config.WorkerConfig {
	return config.WorkerConfig{
		Concurrency:  2,
		MaxRetries:   2,
		QueueName:    "enrichment",
		PollInterval: 1,
	}
}

func TestPoolProcessesAllTasks(t *testing.T) {
	source := &queueSource{tasks: []api.Task{
		{TaskID: "a"}, {TaskID: "b"}, {TaskID: "c"},
	}}
	proc := &recordingProcessor{failures: map[string]int{}}
	pool := NewPool(source, proc, testConfig(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- pool.Run(ctx) }()

	require.Eventually(t, func() bool {
		return len(proc.processed()) == 3
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, proc.processed())
}

func TestPoolRetriesThenAbandons(t *testing.T) {
	source := &queueSource{tasks: []api.Task{{TaskID: "flaky"}}}
	// More failures than the retry ceiling allows.
	proc := &recordingProcessor{failures: map[string]int{"flaky": 10}}
	pool := NewPool(source, proc, testConfig(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- pool.Run(ctx) }()

	// MaxRetries=2 means 3 attempts total, after which the task is dropped.
	require.Eventually(t, func() bool {
		return len(proc.processed()) == 3
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Len(t, proc.processed(), 3)
}

func TestPoolRecoversAfterTransientFailure(t *testing.T) {
	source := &queueSource{tasks: []api.Task{{TaskID: "wobbly"}}}
	proc := &recordingProcessor{failures: map[string]int{"wobbly": 1}}
	pool := NewPool(source, proc, testConfig(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- pool.Run(ctx) }()

	require.Eventually(t, func() bool {
		return len(proc.processed()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestPoolStopsOnCancel(t *testing.T) {
	source := &queueSource{}
	proc := &recordingProcessor{failures: map[string]int{}}
	pool := NewPool(source, proc, testConfig(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- pool.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not stop after cancellation")
	}
}
