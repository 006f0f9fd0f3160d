package main

import (
	"log/slog"
	"machine"
	"time"

	"github.com/harveysanders/tftwidgets/board"
	"github.com/harveysanders/tftwidgets/widget"
	"tinygo.org/x/tinyfont/freesans"
)

const (
	max16Bit uint16  = 65535 // The Pico's ADC readings are scaled to 16 bits.
	sysV     float64 = 3.3   // Logic level in volts.
	labelW           = 100
)

func main() {
	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	machine.InitADC()
	sensor := machine.ADC{Pin: machine.ADC0}
	sensor.Configure(machine.ADCConfig{})

	// GP14/GP15 are driven by PWM slice 7 on the RP2040/RP2350.
	led := machine.GP15
	pwm := machine.PWM7
	err := pwm.Configure(machine.PWMConfig{
		Period: uint64(time.Second) / 500,
	})
	if err != nil {
		println("could not configure PWM:", err.Error())
		return
	}
	ch, err := pwm.Channel(led)
	if err != nil {
		println("could not get channel for pin:", err.Error())
		return
	}

	display, _, err := board.ConfigureTFT(logger)
	if err != nil {
		for {
			println("could not configure TFT", err.Error())
			time.Sleep(time.Second)
		}
	}

	screenW, _ := display.Size()
	def := widget.DefaultDefinition(0, 4, screenW-labelW, &freesans.Regular9pt7b)
	def.Align = widget.AlignEnd
	def.Logger = logger

	volts := widget.NewLabeledControl(display, widget.LabelDefinition{Text: "Voltage", Width: labelW}, def)
	volts.Display().SetFloatFormat("%.2f V")

	def.Y += volts.Height()
	percent := widget.NewLabeledControl(display, widget.LabelDefinition{Text: "Level", Width: labelW}, def)
	percent.Display().SetFloatFormat("%.1f%%")

	def.Y += percent.Height()
	raw := widget.NewLabeledControl(display, widget.LabelDefinition{Text: "16-bit", Width: labelW}, def)

	rows := []*widget.LabeledControl{volts, percent, raw}
	for {
		val := sensor.Get()
		level := float64(val) / float64(max16Bit)
		pwm.Set(ch, uint32(uint64(val)*uint64(pwm.Top())/uint64(max16Bit)))

		volts.SetFloat(level * sysV)
		percent.SetFloat(level * 100)
		raw.SetUint(uint32(val))

		for _, row := range rows {
			if err := row.Render(); err != nil {
				logger.Error("render", slog.String("err", err.Error()))
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
}
