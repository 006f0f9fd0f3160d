// Package panel drives a column of labeled readouts on the TFT from a
// channel of updates.
//
// Example usage:
//
//	updates := make(chan panel.Message, 10)
//	h := panel.NewHandler(display, def, 90, []panel.Row{
//		{Label: "Temp", FloatFormat: "%.1f C"},
//		{Label: "Status"},
//	}, updates, logger)
//	go h.Run()
//
//	// Send never blocks; a full channel drops the update.
//	panel.Send(updates, 0, widget.FloatValue(21.5))
package panel

import (
	"io"
	"log/slog"

	"github.com/harveysanders/tftwidgets/tft"
	"github.com/harveysanders/tftwidgets/widget"
)

// Message sets the value shown on one row.
type Message struct {
	Row   int
	Value widget.Value
}

// Row configures one line of the panel.
type Row struct {
	Label       string
	IntFormat   string
	FloatFormat string
}

// Handler owns the controls and is the only goroutine that touches them.
type Handler struct {
	rows     []*widget.LabeledControl
	messages <-chan Message
	logger   *slog.Logger
}

// NewHandler stacks one labeled control per row, starting at def's position.
// Each label is labelWidth wide and def.Width is the width of the values.
func NewHandler(surface tft.Surface, def widget.Definition, labelWidth int16, rows []Row, messages <-chan Message, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}
	h := &Handler{
		rows:     make([]*widget.LabeledControl, 0, len(rows)),
		messages: messages,
		logger:   logger,
	}
	for _, r := range rows {
		rowDef := def
		rowDef.IntFormat = r.IntFormat
		rowDef.FloatFormat = r.FloatFormat
		lc := widget.NewLabeledControl(surface, widget.LabelDefinition{
			Text:  r.Label,
			Width: labelWidth,
		}, rowDef)
		h.rows = append(h.rows, lc)
		def.Y += lc.Height()
	}
	return h
}

// Run applies messages until the channel is closed. Updates that are already
// queued are applied together and drawn in a single pass.
// Run should be called in a separate goroutine.
func (h *Handler) Run() {
	for msg := range h.messages {
		h.apply(msg)
		h.drain()
		h.Render()
	}
}

// Render draws every row that changed.
func (h *Handler) Render() {
	for i, row := range h.rows {
		if err := row.Render(); err != nil {
			h.logger.Error("panel:render-failed", slog.Int("row", i), slog.String("err", err.Error()))
		}
	}
}

// Row returns the control for row i, or nil when i is out of range.
func (h *Handler) Row(i int) *widget.LabeledControl {
	if i < 0 || i >= len(h.rows) {
		return nil
	}
	return h.rows[i]
}

// Len returns the number of rows.
func (h *Handler) Len() int { return len(h.rows) }

func (h *Handler) drain() {
	for {
		select {
		case msg, ok := <-h.messages:
			if !ok {
				return
			}
			h.apply(msg)
		default:
			return
		}
	}
}

func (h *Handler) apply(msg Message) {
	row := h.Row(msg.Row)
	if row == nil {
		h.logger.Warn("panel:no-such-row", slog.Int("row", msg.Row))
		return
	}
	row.SetValue(msg.Value)
}

// Send queues v for row without blocking. It reports false when the channel
// is full and the update was dropped.
func Send(ch chan<- Message, row int, v widget.Value) bool {
	select {
	case ch <- Message{Row: row, Value: v}:
		return true
	default:
		return false
	}
}

// SendText is Send for a text value.
func SendText(ch chan<- Message, row int, text string) bool {
	return Send(ch, row, widget.TextValue(text))
}
