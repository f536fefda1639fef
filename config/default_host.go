//go:build !tinygo

package config

// Raw-mode terminals send DEL (0x7f) for the Backspace key.
const defaultDELIsBackspace = true
