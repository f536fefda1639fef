package kernel

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

const (
	maxTasks = 16

	// MinStackBytes is the smallest stack budget a task may ask for.
	MinStackBytes = 512
	// DefaultStackBytes matches the serial console thread budget on the device.
	DefaultStackBytes = 2048
)

var (
	ErrTaskTableFull = errors.New("kernel: task table full")
	ErrNilTask       = errors.New("kernel: nil task")
)

type TaskID uint8

// Priority orders runnable tasks. Higher values run first.
type Priority uint8

const (
	PriorityLow Priority = iota + 1
	PriorityBelowNormal
	PriorityNormal
	PriorityAboveNormal
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityBelowNormal:
		return "below_normal"
	case PriorityNormal:
		return "normal"
	case PriorityAboveNormal:
		return "above_normal"
	case PriorityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParsePriority maps a config name to a Priority.
func ParsePriority(s string) (Priority, bool) {
	for p := PriorityLow; p <= PriorityHigh; p++ {
		if p.String() == s {
			return p, true
		}
	}
	return 0, false
}

// Task is a cooperative unit of execution.
//
// Step must return promptly; a task that never returns stalls every other
// task on the kernel.
type Task interface {
	Step(*Context)
}

// TaskConfig describes how a task is scheduled.
type TaskConfig struct {
	Name     string
	Priority Priority

	// StackBytes is the stack budget requested for the task. TinyGo sizes
	// goroutine stacks at link time, so it is only checked here.
	StackBytes uint32
}

type taskState struct {
	task    Task
	cfg     TaskConfig
	stopped bool
	wakeAt  uint64
}

// Kernel is a minimal cooperative scheduler driven by a millisecond tick.
type Kernel struct {
	mu sync.Mutex

	tasks     [maxTasks]taskState
	taskCount TaskID
	rr        TaskID

	now  uint64
	tick chan struct{}
}

// New creates a kernel instance.
func New() *Kernel {
	return &Kernel{tick: make(chan struct{}, 1)}
}

// AddTask registers a task and returns its ID.
func (k *Kernel) AddTask(t Task, cfg TaskConfig) (TaskID, error) {
	if t == nil {
		return 0, ErrNilTask
	}
	if cfg.Priority == 0 {
		cfg.Priority = PriorityNormal
	}
	if cfg.StackBytes == 0 {
		cfg.StackBytes = DefaultStackBytes
	}
	if cfg.StackBytes < MinStackBytes {
		return 0, fmt.Errorf("kernel: task %q stack %d below minimum %d", cfg.Name, cfg.StackBytes, MinStackBytes)
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if k.taskCount >= maxTasks {
		return 0, fmt.Errorf("%w: cannot add %q", ErrTaskTableFull, cfg.Name)
	}
	id := k.taskCount
	k.taskCount++
	k.tasks[id] = taskState{task: t, cfg: cfg}
	return id, nil
}

// Step runs at most one task step and reports whether one ran.
//
// The highest-priority runnable task wins; equal priorities rotate.
func (k *Kernel) Step() bool {
	k.mu.Lock()
	id, ok := k.pickLocked()
	if !ok {
		k.mu.Unlock()
		return false
	}
	st := k.tasks[id]
	k.rr = (id + 1) % k.taskCount
	k.mu.Unlock()

	ctx := &Context{k: k, taskID: id, name: st.cfg.Name}
	k.runStep(ctx, st.task)

	k.mu.Lock()
	defer k.mu.Unlock()
	if ctx.panicked {
		k.tasks[id].stopped = true
		return true
	}
	if ctx.sleeping {
		k.tasks[id].wakeAt = ctx.wakeAt
	}
	return true
}

func (k *Kernel) pickLocked() (TaskID, bool) {
	if k.taskCount == 0 {
		return 0, false
	}
	var (
		best  TaskID
		found bool
	)
	for i := TaskID(0); i < k.taskCount; i++ {
		id := (k.rr + i) % k.taskCount
		st := &k.tasks[id]
		if st.task == nil || st.stopped || st.wakeAt > k.now {
			continue
		}
		if !found || st.cfg.Priority > k.tasks[best].cfg.Priority {
			best = id
			found = true
		}
	}
	return best, found
}

func (k *Kernel) runStep(ctx *Context, t Task) {
	defer func() {
		if r := recover(); r != nil {
			ctx.panicked = true
			recordPanic(PanicInfo{TaskID: ctx.taskID, TaskName: ctx.name, Tick: k.NowTick(), Value: r})
		}
	}()
	t.Step(ctx)
}

// TickTo advances the clock to seq milliseconds and wakes due sleepers.
func (k *Kernel) TickTo(seq uint64) {
	k.mu.Lock()
	if seq <= k.now {
		k.mu.Unlock()
		return
	}
	k.now = seq
	k.mu.Unlock()

	select {
	case k.tick <- struct{}{}:
	default:
	}
}

// NowTick returns the current clock value in milliseconds.
func (k *Kernel) NowTick() uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.now
}

// Run steps tasks until ctx is cancelled. When nothing is runnable it waits
// for the next tick.
func (k *Kernel) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if k.Step() {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-k.tick:
		}
	}
}

// Tasks returns the configuration of every registered task.
func (k *Kernel) Tasks() []TaskConfig {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]TaskConfig, 0, k.taskCount)
	for i := TaskID(0); i < k.taskCount; i++ {
		out = append(out, k.tasks[i].cfg)
	}
	return out
}
