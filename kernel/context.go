package kernel

// Context provides task-local access to kernel operations.
type Context struct {
	k      *Kernel
	taskID TaskID
	name   string

	sleeping bool
	wakeAt   uint64
	panicked bool
}

// NewContext returns a context bound to k that is not attached to a task.
// Sleep on it is a no-op. It lets tests drive Task.Step directly.
func NewContext(k *Kernel) *Context {
	return &Context{k: k}
}

// TaskID returns the current task ID.
func (c *Context) TaskID() TaskID { return c.taskID }

// Name returns the current task name.
func (c *Context) Name() string { return c.name }

// NowTick returns the kernel clock in milliseconds.
func (c *Context) NowTick() uint64 {
	if c.k == nil {
		return 0
	}
	return c.k.NowTick()
}

// Sleep parks the task until the clock has advanced by at least ms.
//
// The task must return from Step after calling Sleep.
func (c *Context) Sleep(ms uint32) {
	if c.k == nil {
		return
	}
	c.sleeping = true
	c.wakeAt = c.k.NowTick() + uint64(ms)
}
