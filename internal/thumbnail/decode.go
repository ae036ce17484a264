// Package thumbnail rasterizes the vector shapes of a scene document to
// small PNG previews.
//
// Solid fills and solid strokes render as authored. Gradients render with
// the color of their first stop and bitmap fills as a neutral gray; the
// previews are for telling shapes apart, not for pixel fidelity.
package thumbnail

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/roach88/sceneforge/internal/ir"
)

// wireShapes is the subset of a data file thumbnails read.
type wireShapes struct {
	Shapes []struct {
		AssetID uint32     `json:"assetId"`
		Paths   []wirePath `json:"paths"`
	} `json:"Shapes"`
}

type wirePath struct {
	D      []any   `json:"d"`
	Stroke bool    `json:"stroke"`
	Color  *string `json:"color"`
	Alpha  float64 `json:"alpha"`

	Image          *struct{} `json:"image"`
	LinearGradient *struct {
		Stop []wireStop `json:"stop"`
	} `json:"linearGradient"`
	RadialGradient *struct {
		Stop []wireStop `json:"stop"`
	} `json:"radialGradient"`

	Thickness  float64      `json:"thickness"`
	LineCap    ir.CapStyle  `json:"linecap"`
	LineJoin   ir.JoinStyle `json:"linejoin"`
	MiterLimit float64      `json:"miterLimit"`
}

type wireStop struct {
	Offset  float64 `json:"offset"`
	Color   string  `json:"stopColor"`
	Opacity float64 `json:"stopOpacity"`
}

// DecodeShapes reads the Shapes section of a serialized document.
func DecodeShapes(r io.Reader) ([]ir.Shape, error) {
	var w wireShapes
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	shapes := make([]ir.Shape, 0, len(w.Shapes))
	for _, ws := range w.Shapes {
		s := ir.Shape{AssetID: ws.AssetID, Paths: make([]ir.Path, 0, len(ws.Paths))}
		for i, wp := range ws.Paths {
			p, err := wp.path()
			if err != nil {
				return nil, fmt.Errorf("shape %d path %d: %w", ws.AssetID, i, err)
			}
			s.Paths = append(s.Paths, p)
		}
		shapes = append(shapes, s)
	}
	return shapes, nil
}

func (wp wirePath) path() (ir.Path, error) {
	data := make(ir.PathData, len(wp.D))
	for i, v := range wp.D {
		switch t := v.(type) {
		case float64:
			data[i] = ir.PathToken{Num: t}
		case string:
			data[i] = ir.PathToken{Op: t}
		default:
			return ir.Path{}, fmt.Errorf("token %d is %T", i, v)
		}
	}

	p := ir.Path{Data: data, IsStroke: wp.Stroke}
	switch {
	case wp.Color != nil:
		p.Fill = ir.SolidFill{Color: *wp.Color, Alpha: wp.Alpha}
	case wp.LinearGradient != nil:
		p.Fill = ir.LinearGradient{Stops: stops(wp.LinearGradient.Stop)}
	case wp.RadialGradient != nil:
		p.Fill = ir.RadialGradient{Stops: stops(wp.RadialGradient.Stop)}
	case wp.Image != nil:
		p.Fill = ir.BitmapFill{}
	}
	if wp.Stroke {
		p.Stroke = ir.SolidStroke{
			Thickness:  wp.Thickness,
			Cap:        wp.LineCap,
			Join:       wp.LineJoin,
			MiterLimit: wp.MiterLimit,
		}
	}
	return p, nil
}

func stops(ws []wireStop) []ir.GradientStop {
	out := make([]ir.GradientStop, len(ws))
	for i, s := range ws {
		out[i] = ir.GradientStop{Offset: s.Offset, Color: s.Color, Opacity: s.Opacity}
	}
	return out
}
