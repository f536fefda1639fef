//go:build tinygo

package config

const defaultDELIsBackspace = false
