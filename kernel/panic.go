package kernel

import "sync"

// PanicInfo describes a task step that panicked.
type PanicInfo struct {
	TaskID   TaskID
	TaskName string
	// Tick is the kernel clock when the step panicked.
	Tick  uint64
	Value any
	Stack []byte
}

var panics struct {
	mu      sync.Mutex
	handler func(PanicInfo)
	count   uint32
}

// SetPanicHandler installs the process-wide panic handler. It runs for the
// first recovered panic only and must not panic itself.
func SetPanicHandler(fn func(PanicInfo)) {
	panics.mu.Lock()
	panics.handler = fn
	panics.mu.Unlock()
}

// InPanicMode reports whether any task has panicked.
func InPanicMode() bool { return PanicCount() > 0 }

// PanicCount returns how many task panics have been recovered.
func PanicCount() uint32 {
	panics.mu.Lock()
	defer panics.mu.Unlock()
	return panics.count
}

func recordPanic(info PanicInfo) {
	panics.mu.Lock()
	panics.count++
	first := panics.count == 1
	fn := panics.handler
	panics.mu.Unlock()

	if !first || fn == nil {
		return
	}
	info.Stack = captureStack()
	fn(info)
}
