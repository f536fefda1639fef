package terminal

import "errors"

var (
	// ErrRegistryFull is returned when every registry slot is taken. The
	// command is dropped; the terminal keeps running.
	ErrRegistryFull = errors.New("terminal: command registry full")

	ErrInvalidCommand = errors.New("terminal: invalid command")
)

// CommandNotFoundError describes a committed line that names no command.
type CommandNotFoundError struct {
	Name string
}

func (e *CommandNotFoundError) Error() string {
	return e.Name + " is not registered as a command!"
}

func isRegistryFull(err error) bool {
	return errors.Is(err, ErrRegistryFull)
}
