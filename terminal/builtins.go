package terminal

import "strconv"

const helpBanner = "" +
	"*******************************************************************************\r\n" +
	"*                             nanoterm Help Menu                              *\r\n" +
	"*******************************************************************************\r\n" +
	"Below is a list of registered commands:\r\n"

func (t *Terminal) builtins() []Command {
	return []Command{
		{Name: "help", Run: t.cmdHelp},
		{Name: "runtime-ms", Run: t.cmdRuntime},
	}
}

// cmdHelp prints the banner and every command name in registration order.
func (t *Terminal) cmdHelp() {
	t.writeString(crlf)
	t.println(helpBanner)
	for _, cmd := range t.reg.All() {
		t.println(cmd.Name)
	}
}

// cmdRuntime prints milliseconds since start.
func (t *Terminal) cmdRuntime() {
	t.writeString(crlf + strconv.FormatUint(t.opts.Clock(), 10) + crlf)
}
