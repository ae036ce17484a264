package ir

// TweenProp is one tweened property with its easing.
type TweenProp struct {
	Name         string // x, y, scaleX, scaleY, rotation, skewX, skewY, alpha
	Start        float64
	End          float64
	EaseType     string
	EaseStrength float64
}

// Tween is the set of tweened properties of one object over [Start, End).
type Tween struct {
	ObjectID       uint32
	Start          uint32
	End            uint32
	StartTransform Matrix
	Props          []TweenProp
}

// JSONValue implements Valuer. Each property becomes a key of the tween.
func (t Tween) JSONValue() any {
	o := Object{}.
		Set("objectId", t.ObjectID).
		Set("start", t.Start).
		Set("end", t.End).
		Set("startTransform", t.StartTransform.JSONValue())
	for _, p := range t.Props {
		o = o.Set(p.Name, Object{}.
			Set("start", p.Start).
			Set("end", p.End).
			Set("easeType", p.EaseType).
			Set("easeStrength", p.EaseStrength))
	}
	return o
}

// TimelineTweens groups the tweens found on one timeline.
type TimelineTweens struct {
	TimelineName string
	Tweens       []Tween
}

// JSONValue implements Valuer.
func (t TimelineTweens) JSONValue() any {
	return Object{}.
		Set("timelineName", t.TimelineName).
		Set("tweens", List(t.Tweens))
}
