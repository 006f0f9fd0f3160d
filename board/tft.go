// Package board wires the 1.14" 240x135 ST7789 panel (Waveshare Pico-LCD-1.14
// layout) to a Raspberry Pi Pico and hands it to the tft package.
package board

import (
	"errors"
	"log/slog"
	"machine"

	"github.com/harveysanders/tftwidgets/tft"
	"github.com/harveysanders/tftwidgets/widget"
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/st7789"
)

// Pico-LCD-1.14 pin map.
const (
	pinSCK   = machine.GP10
	pinSDO   = machine.GP11
	pinCS    = machine.GP9
	pinDC    = machine.GP8
	pinReset = machine.GP12
	pinLight = machine.GP13

	spiFrequency = 62_500_000
)

// ConfigureTFT brings up SPI1 and the ST7789 in landscape, clears the screen
// to black and returns a surface for widgets to draw on.
func ConfigureTFT(logger *slog.Logger) (*tft.Display, *st7789.Device, error) {
	err := machine.SPI1.Configure(machine.SPIConfig{
		Frequency: spiFrequency,
		SCK:       pinSCK,
		SDO:       pinSDO,
		Mode:      0,
	})
	if err != nil {
		return nil, nil, errors.New("configure SPI1:" + err.Error())
	}

	dev := st7789.New(machine.SPI1, pinReset, pinDC, pinCS, pinLight)
	dev.Configure(st7789.Config{
		Width:        135,
		Height:       240,
		Rotation:     drivers.Rotation90,
		RowOffset:    40,
		ColumnOffset: 52,
	})
	dev.FillScreen(widget.Black)
	dev.EnableBacklight(true)

	w, h := dev.Size()
	logger.Info("tft:ready", slog.Int("width", int(w)), slog.Int("height", int(h)))
	return tft.NewDisplay(&dev), &dev, nil
}
