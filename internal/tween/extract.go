// Package tween extracts per-object property tweens from timeline layers.
//
// Only geometric tweens on normal layers are read, and only a fixed set of
// properties: position, scale, rotation, skew and alpha. Everything else is
// silently left out of the document.
package tween

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/roach88/sceneforge/internal/ir"
)

// Dictionary keys read by the extractor.
const (
	KeyTweenType      = "TweenType"
	KeyPropertyStates = "Property_States"
	KeyPropertyEase   = "Property_Ease"
	KeyStartValue     = "Start_Value"
	KeyEndValue       = "End_Value"
	KeyEaseType       = "Ease_Type"
	KeyEaseStrength   = "Ease_Strength"

	TypeGeometric = "geometric"
	EaseCustom    = "custom"
)

// LayerKind classifies a timeline layer.
type LayerKind string

const (
	LayerNormal LayerKind = "normal"
	LayerGuide  LayerKind = "guide"
	LayerMask   LayerKind = "mask"
	LayerFolder LayerKind = "folder"
)

// Layer is one layer of a timeline as reported by the walker.
type Layer struct {
	Name      string     `yaml:"name"`
	Kind      LayerKind  `yaml:"kind,omitempty"` // empty means normal
	Keyframes []Keyframe `yaml:"keyframes"`
}

// Keyframe is a span of frames on a layer.
type Keyframe struct {
	Start    uint32    `yaml:"start"`
	Duration uint32    `yaml:"duration"`
	Elements []Element `yaml:"elements"`
}

// Element is a display element present on a keyframe with its tween
// dictionaries.
type Element struct {
	ObjectID  uint32    `yaml:"object_id"`
	Transform ir.Matrix `yaml:"transform"`
	Tweens    []Dict    `yaml:"tweens"`
}

type property struct {
	name string // output key
	key  string // dictionary key
	sub  string // sub-field of a vector property
}

// properties lists the supported properties in output order.
var properties = []property{
	{name: "x", key: "Motion_XY", sub: "Pos_X"},
	{name: "y", key: "Motion_XY", sub: "Pos_Y"},
	{name: "scaleX", key: "Scale_X"},
	{name: "scaleY", key: "Scale_Y"},
	{name: "rotation", key: "Rotation_Z"},
	{name: "skewX", key: "Skew_X"},
	{name: "skewY", key: "Skew_Y"},
	{name: "alpha", key: "Alpha_Amount"},
}

// Extractor reads tweens from layers.
type Extractor struct {
	logger logrus.FieldLogger
}

// NewExtractor returns an extractor logging to logger. A nil logger
// discards output.
func NewExtractor(logger logrus.FieldLogger) *Extractor {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Extractor{logger: logger}
}

// Extract returns the tweens found on a timeline. ok is false when the
// timeline has none, in which case it must not appear in the document.
func (e *Extractor) Extract(timelineName string, layers []Layer) (ir.TimelineTweens, bool) {
	out := ir.TimelineTweens{TimelineName: timelineName}
	for _, layer := range layers {
		if layer.Kind != "" && layer.Kind != LayerNormal {
			continue
		}
		for _, kf := range layer.Keyframes {
			// a single frame cannot be tweened
			if kf.Duration <= 1 {
				continue
			}
			end := kf.Start + kf.Duration
			for _, el := range kf.Elements {
				if tw, ok := e.element(el, kf.Start, end); ok {
					out.Tweens = append(out.Tweens, tw)
				}
			}
		}
	}
	return out, len(out.Tweens) > 0
}

func (e *Extractor) element(el Element, start, end uint32) (ir.Tween, bool) {
	tw := ir.Tween{
		ObjectID:       el.ObjectID,
		Start:          start,
		End:            end,
		StartTransform: el.Transform,
	}
	for _, d := range el.Tweens {
		kind, err := d.str("tween", KeyTweenType)
		if err != nil || kind != TypeGeometric {
			continue
		}
		for _, p := range properties {
			prop, ok, err := e.readProperty(d, p)
			if err != nil {
				e.logger.WithFields(logrus.Fields{
					"object":   el.ObjectID,
					"property": p.name,
				}).WithError(err).Debug("Property not tweened")
				continue
			}
			if ok {
				tw.Props = append(tw.Props, prop)
			}
		}
	}
	return tw, len(tw.Props) > 0
}

// readProperty returns ok=false without error when the property does not
// change over the tween.
func (e *Extractor) readProperty(d Dict, p property) (ir.TweenProp, bool, error) {
	propDict, err := d.dict(p.name, p.key)
	if err != nil {
		return ir.TweenProp{}, false, err
	}
	states, err := propDict.dict(p.name, KeyPropertyStates)
	if err != nil {
		return ir.TweenProp{}, false, err
	}

	var start, end float64
	if p.sub == "" {
		if start, err = states.number(p.name, KeyStartValue); err != nil {
			return ir.TweenProp{}, false, err
		}
		if end, err = states.number(p.name, KeyEndValue); err != nil {
			return ir.TweenProp{}, false, err
		}
	} else {
		if start, err = subValue(states, p, KeyStartValue); err != nil {
			return ir.TweenProp{}, false, err
		}
		if end, err = subValue(states, p, KeyEndValue); err != nil {
			return ir.TweenProp{}, false, err
		}
	}
	if start == end {
		return ir.TweenProp{}, false, nil
	}

	easeType, strength, err := e.readEase(propDict, p.name)
	if err != nil {
		return ir.TweenProp{}, false, err
	}
	return ir.TweenProp{
		Name:         p.name,
		Start:        start,
		End:          end,
		EaseType:     easeType,
		EaseStrength: strength,
	}, true, nil
}

func subValue(states Dict, p property, key string) (float64, error) {
	v, err := states.dict(p.name, key)
	if err != nil {
		return 0, err
	}
	return v.number(p.name, p.sub)
}

// readEase reads the ease descriptor of a property. Custom ease curves are
// recorded by type only; their path is not exported.
func (e *Extractor) readEase(propDict Dict, name string) (string, float64, error) {
	ease, err := propDict.dict(name, KeyPropertyEase)
	if err != nil {
		return "", 0, err
	}
	easeType, err := ease.str(name, KeyEaseType)
	if err != nil {
		return "", 0, err
	}
	strength, err := ease.number(name, KeyEaseStrength)
	if err != nil {
		return "", 0, err
	}
	if easeType == EaseCustom {
		e.logger.WithField("property", name).Warn("Custom ease curves are not supported, exporting ease type only")
	}
	return easeType, strength, nil
}
