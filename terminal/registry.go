package terminal

import (
	"fmt"
	"strings"
	"sync"
)

// DefaultCommands is the default registry capacity.
const DefaultCommands = 10

// Command is a named zero-argument operation.
type Command struct {
	Name string
	Run  func()
}

// Registry is a fixed-capacity, ordered command table. Lookups scan in
// registration order and the first match wins, so a duplicate name shadows
// nothing and is itself unreachable by exact lookup.
//
// It is safe to register while the terminal is polling.
type Registry struct {
	mu   sync.RWMutex
	cmds []Command
}

// NewRegistry allocates a registry holding at most capacity commands.
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCommands
	}
	return &Registry{cmds: make([]Command, 0, capacity)}
}

// Register appends a command. It fails with ErrRegistryFull when the table
// is full; names are not checked for uniqueness.
func (r *Registry) Register(name string, run func()) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidCommand)
	}
	if run == nil {
		return fmt.Errorf("%w: %q has no callback", ErrInvalidCommand, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.cmds) == cap(r.cmds) {
		return fmt.Errorf("%w: could not register %q", ErrRegistryFull, name)
	}
	r.cmds = append(r.cmds, Command{Name: name, Run: run})
	return nil
}

// FindExact returns the first command named exactly text.
func (r *Registry) FindExact(text string) (Command, bool) {
	return r.find(func(name string) bool { return name == text })
}

// FindContaining returns the first command whose name contains partial
// anywhere, not only at the start.
func (r *Registry) FindContaining(partial string) (Command, bool) {
	return r.find(func(name string) bool { return strings.Contains(name, partial) })
}

// FindPrefix returns the first command whose name starts with partial.
func (r *Registry) FindPrefix(partial string) (Command, bool) {
	return r.find(func(name string) bool { return strings.HasPrefix(name, partial) })
}

func (r *Registry) find(match func(string) bool) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cmd := range r.cmds {
		if match(cmd.Name) {
			return cmd, true
		}
	}
	return Command{}, false
}

// All returns the commands in registration order.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, len(r.cmds))
	copy(out, r.cmds)
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cmds)
}

func (r *Registry) Cap() int { return cap(r.cmds) }
