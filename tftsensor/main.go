package main

import (
	"log/slog"
	"machine"
	"net/netip"
	"time"

	"github.com/harveysanders/tftwidgets/board"
	"github.com/harveysanders/tftwidgets/tftsensor/mqtt"
	"github.com/harveysanders/tftwidgets/tftsensor/panel"
	"github.com/harveysanders/tftwidgets/tftsensor/weather"
	"github.com/harveysanders/tftwidgets/tftsensor/wifi"
	"github.com/harveysanders/tftwidgets/widget"
	"tinygo.org/x/drivers/dht"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	max16Bit uint16  = 65535 // Max ADC value. The Pico has an onboard 16-bit ADC.
	sysV     float32 = 3.3   // Logic level in volts. Pico runs at 3.3VDC.
	labelW           = 90
)

// Set with -ldflags "-X main.ssid=... -X main.pass=... -X main.broker=host:port".
var (
	ssid   string
	pass   string
	broker = "10.0.0.9:1883"
	user   string
	secret string
)

// Panel rows.
const (
	rowVoltage = iota
	rowRaw
	rowTemp
	rowHumidity
	rowAddr
	rowStatus
)

func main() {
	start := time.Now()
	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	display, _, err := board.ConfigureTFT(logger)
	if err != nil {
		printErrForever(logger, "configure TFT", slog.Any("reason", err))
	}

	screenW, _ := display.Size()
	def := widget.DefaultDefinition(0, 0, screenW-labelW, &proggy.TinySZ8pt7b)
	def.Align = widget.AlignEnd
	def.Logger = logger

	// Buffered so a slow redraw never stalls the sampling loop.
	updates := make(chan panel.Message, 16)
	screen := panel.NewHandler(display, def, labelW, []panel.Row{
		rowVoltage:  {Label: "Voltage", FloatFormat: "%.2f V"},
		rowRaw:      {Label: "16-bit"},
		rowTemp:     {Label: "Temp", FloatFormat: "%.1f C"},
		rowHumidity: {Label: "Humidity", FloatFormat: "%.0f%%"},
		rowAddr:     {Label: "IP"},
		rowStatus:   {Label: "Status"},
	}, updates, logger)
	screen.Render()
	go screen.Run()

	readings := make(chan mqtt.Reading, 10)
	go network(logger, updates, readings)

	machine.InitADC()
	adc := machine.ADC{Pin: machine.ADC0}
	adc.Configure(machine.ADCConfig{})
	climate := weather.New(machine.GP16, dht.C)

	debugLED := machine.GP21
	debugLED.Configure(machine.PinConfig{Mode: machine.PinOutput})

	for {
		raw := adc.Get()
		voltage := float32(raw) / float32(max16Bit) * sysV
		panel.Send(updates, rowVoltage, widget.FloatValue(float64(voltage)))
		panel.Send(updates, rowRaw, widget.UintValue(uint32(raw)))

		reading := mqtt.Reading{
			Voltage:   voltage,
			Raw:       raw,
			SinceBoot: time.Since(start),
		}
		w, err := climate.Read()
		if err != nil {
			logger.Error("dht11:read", slog.String("err", err.Error()))
		}
		if err == nil || w.Cached {
			panel.Send(updates, rowTemp, widget.FloatValue(float64(w.Temperature)))
			panel.Send(updates, rowHumidity, widget.FloatValue(float64(w.Humidity)))
			reading.Temperature = w.Temperature
			reading.Humidity = w.Humidity
		}

		select {
		case readings <- reading:
		default:
			logger.Warn("mqtt:queue-full")
		}

		debugLED.High()
		time.Sleep(250 * time.Millisecond)
		debugLED.Low()
		time.Sleep(250 * time.Millisecond)
	}
}

// network joins WiFi, gets an address and hands readings to the MQTT
// client. Progress shows on the status row.
func network(logger *slog.Logger, updates chan<- panel.Message, readings <-chan mqtt.Reading) {
	panel.SendText(updates, rowStatus, "Joining WiFi")
	stack, err := wifi.Join(wifi.Config{
		SSID:        ssid,
		Password:    pass,
		Hostname:    "tftsensor",
		MaxTCPConns: 1,
		Logger:      logger,
	})
	if err != nil {
		panel.SendText(updates, rowStatus, "WiFi failed")
		printErrForever(logger, "wifi join", slog.Any("reason", err))
	}
	go stack.Run()

	panel.SendText(updates, rowStatus, "DHCP")
	addr, err := stack.DHCP(netip.Addr{})
	if err != nil {
		panel.SendText(updates, rowStatus, "DHCP failed")
		printErrForever(logger, "dhcp", slog.Any("reason", err))
	}
	panel.SendText(updates, rowAddr, addr.String())

	c := mqtt.Client{
		ID:                "tinygo-tft",
		Topic:             "sensors/tft",
		Username:          user,
		Password:          secret,
		Timeout:           5 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		TCPBufSize:        2030, // MTU - ethhdr - iphdr - tcphdr
		Logger:            logger,
		OnStatus: func(s string) {
			panel.SendText(updates, rowStatus, s)
		},
	}
	err = c.ConnectAndPublish(stack.Net(), broker, readings)
	if err != nil {
		panel.SendText(updates, rowStatus, "MQTT failed")
		printErrForever(logger, "mqtt", slog.Any("reason", err))
	}
}

// printErrForever logs msg once a second so it is seen even if the serial
// monitor attaches late. It never returns.
func printErrForever(logger *slog.Logger, msg string, args ...any) {
	for {
		logger.Error(msg, args...)
		time.Sleep(time.Second)
	}
}
