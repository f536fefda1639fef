//go:build tinygo

package main

import (
	"nanoterm/app"
	"nanoterm/config"
	"nanoterm/hal"
	"nanoterm/internal/logx"
)

func main() {
	h := hal.New()
	cfg := config.Default()
	logx.Init(h.Logger(), logx.Options{Level: cfg.Log.Level})
	app.Run(h, cfg, logx.L())
}
