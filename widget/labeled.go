package widget

import (
	"errors"

	"github.com/harveysanders/tftwidgets/tft"
)

// LabeledControl is a fixed label followed by a value on the same row.
// Both halves share the styling of the display definition; the label takes
// its width and alignment from the label definition and the value control
// starts right after it.
type LabeledControl struct {
	label *ValueControl
	value *ValueControl
}

// NewLabeledControl builds the label and value controls. display.Width is the
// width of the value half.
func NewLabeledControl(surface tft.Surface, label LabelDefinition, display Definition) *LabeledControl {
	labelDef := display
	labelDef.Width = label.Width
	labelDef.Align = label.Align

	valueDef := display
	valueDef.X += label.Width

	lc := &LabeledControl{
		label: NewValueControl(surface, labelDef),
		value: NewValueControl(surface, valueDef),
	}
	lc.label.SetText(label.Text)
	return lc
}

// Clear drops the value. The label is kept.
func (lc *LabeledControl) Clear() { lc.value.Clear() }

// Render draws whichever half changed.
func (lc *LabeledControl) Render() error {
	return errors.Join(lc.label.Render(), lc.value.Render())
}

// Height returns the height of the value control.
func (lc *LabeledControl) Height() int16 { return lc.value.Height() }

// Dirty reports whether either half will redraw on the next Render.
func (lc *LabeledControl) Dirty() bool { return lc.label.Dirty() || lc.value.Dirty() }

func (lc *LabeledControl) SetText(s string)   { lc.value.SetText(s) }
func (lc *LabeledControl) SetInt(v int32)     { lc.value.SetInt(v) }
func (lc *LabeledControl) SetUint(v uint32)   { lc.value.SetUint(v) }
func (lc *LabeledControl) SetFloat(v float64) { lc.value.SetFloat(v) }
func (lc *LabeledControl) SetValue(v Value)   { lc.value.SetValue(v) }

// Label returns the label control for fine adjustments such as a different
// color or font.
func (lc *LabeledControl) Label() *ValueControl { return lc.label }

// Display returns the value control for fine adjustments.
func (lc *LabeledControl) Display() *ValueControl { return lc.value }
