package bridge

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/go-drift/viewbridge/pkg/config"
	"github.com/go-drift/viewbridge/pkg/foreign"
	"github.com/go-drift/viewbridge/pkg/toolkit"
)

// Placeholder is the diagnostic widget substituted for a subtree that
// could not be rendered: unknown variant, failed extraction, or a failing
// renderer. It is a leaf that hugs its content; hosts may blit its Label
// or show their own affordance keyed on TypeID and Reason.
type Placeholder struct {
	toolkit.WidgetBase

	// TypeID is the variant that could not be rendered, when known.
	TypeID foreign.TypeID
	// Reason is a short human-readable diagnosis.
	Reason string

	label image.Image
}

func newPlaceholder(cfg config.PlaceholderConfig, id foreign.TypeID, reason string) *Placeholder {
	p := &Placeholder{TypeID: id, Reason: reason}
	if cfg.Label {
		text := cfg.LabelPrefix + reason
		if id != "" {
			text = cfg.LabelPrefix + string(id) + " (" + reason + ")"
		}
		p.label = renderLabel(text)
	}
	return p
}

// Label returns the rasterized diagnostic text, or nil when labels are
// disabled in the bridge configuration.
func (p *Placeholder) Label() image.Image {
	return p.label
}

// renderLabel rasterizes text with the 7x13 basic font onto an opaque
// dark strip, enough for a debug overlay without pulling a text stack
// into the bridge.
func renderLabel(text string) image.Image {
	face := basicfont.Face7x13
	const pad = 4
	width := font.MeasureString(face, text).Ceil() + 2*pad
	height := face.Metrics().Height.Ceil() + 2*pad
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{0x40, 0x10, 0x10, 0xFF}), image.Point{}, draw.Src)

	drawer := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{0xFF, 0xD0, 0xD0, 0xFF}),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(pad),
			Y: fixed.I(pad + face.Metrics().Ascent.Ceil()),
		},
	}
	drawer.DrawString(text)
	return img
}
