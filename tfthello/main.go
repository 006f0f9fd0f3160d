package main

import (
	"log/slog"
	"machine"
	"time"

	"github.com/harveysanders/tftwidgets/board"
	"github.com/harveysanders/tftwidgets/widget"
	"tinygo.org/x/tinyfont/freesans"
)

func main() {
	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	display, _, err := board.ConfigureTFT(logger)
	if err != nil {
		for {
			println("could not configure TFT", err.Error())
			time.Sleep(time.Second)
		}
	}

	def := widget.DefaultDefinition(0, 10, 240, &freesans.Regular9pt7b)
	def.Align = widget.AlignCenter
	def.BorderWidth = 2
	def.BorderColor = widget.White
	def.Logger = logger
	hello := widget.NewValueControl(display, def)
	hello.SetText("Hello from TinyGo")

	// Counts up below the greeting so the redraw is visible.
	def.Y += hello.Height() + 4
	def.BorderWidth = 0
	def.Width = 240 - 90
	ticks := widget.NewLabeledControl(display, widget.LabelDefinition{Text: "Uptime", Width: 90}, def)
	ticks.Display().SetIntFormat("%ds")

	start := time.Now()
	for {
		ticks.SetUint(uint32(time.Since(start) / time.Second))
		if err := hello.Render(); err != nil {
			logger.Error("render hello", slog.String("err", err.Error()))
		}
		if err := ticks.Render(); err != nil {
			logger.Error("render uptime", slog.String("err", err.Error()))
		}
		time.Sleep(100 * time.Millisecond)
	}
}
