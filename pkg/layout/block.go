package layout

import "github.com/aeonclok/keycapgen/pkg/template"

// Block represents a single copy's slot in a row.
// Left and Right are in units U.
type Block struct {
	Row         int
	Left, Right float64
}

// Width returns the horizontal span of the block.
func (b Block) Width() float64 { return b.Right - b.Left }

// CenterX returns the horizontal center point of the block.
func (b Block) CenterX() float64 { return (b.Left + b.Right) / 2 }

// Transform converts the block to a model-space placement, with unitCM
// centimetres per U.
func (b Block) Transform(unitCM float64) template.Transform {
	return template.Translate(b.CenterX()*unitCM, float64(b.Row)*unitCM, 0)
}
