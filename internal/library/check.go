package library

import (
	"fmt"

	"github.com/roach88/sceneforge/internal/ir"
)

// Library check codes (E200-E299)
const (
	ErrDuplicateAsset    = "E201" // asset id used twice in one collection
	ErrDanglingReference = "E202" // placed asset does not exist
	ErrDuplicateName     = "E203" // two movie clips share a name
	ErrStageNameClash    = "E204" // movie clip named like the stage
	ErrOrphanTweens      = "E205" // tween group for an unknown timeline
	ErrMissingStage      = "E206" // no stage timeline
	WarnDuplicateShape   = "W201" // two shapes render identically
)

// Severity of a library issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one problem found in a library.
type Issue struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
}

// Error implements the error interface.
func (i Issue) Error() string {
	return fmt.Sprintf("[%s] %s: %s", i.Code, i.Field, i.Message)
}

// Report is the result of Check.
type Report struct {
	Issues []Issue `json:"issues"`
}

// OK reports whether the library has no errors. Warnings are allowed.
func (r Report) OK() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Errors returns the error-severity issues.
func (r Report) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the warning-severity issues.
func (r Report) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

func (r Report) filter(s Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}

// Check validates a manifest. It returns every issue found rather than
// stopping at the first.
func Check(m Manifest) Report {
	var r Report
	add := func(code string, sev Severity, field, format string, args ...any) {
		r.Issues = append(r.Issues, Issue{Code: code, Severity: sev, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	ids := func(collection string, entries []uint32) map[uint32]bool {
		seen := make(map[uint32]bool, len(entries))
		for i, id := range entries {
			if seen[id] {
				add(ErrDuplicateAsset, SeverityError, fmt.Sprintf("%s[%d]", collection, i),
					"asset id %d is already used", id)
			}
			seen[id] = true
		}
		return seen
	}

	shapeIDs := make([]uint32, len(m.Shapes))
	for i, s := range m.Shapes {
		shapeIDs[i] = s.AssetID
	}
	timelineIDs := make([]uint32, len(m.Timelines))
	for i, t := range m.Timelines {
		timelineIDs[i] = t.AssetID
	}
	known := map[ir.PlacementKind]map[uint32]bool{
		ir.KindShape:  ids("Shapes", shapeIDs),
		ir.KindBitmap: ids("Bitmaps", assetIDs(m.Bitmaps)),
		ir.KindSound:  ids("Sounds", assetIDs(m.Sounds)),
		ir.KindText:   ids("Texts", assetIDs(m.Texts)),
	}
	timelines := ids("Timelines", timelineIDs)
	known[ir.KindMovieClip] = timelines
	known[ir.KindGraphic] = timelines

	// Shapes with equal paths could share one resource.
	byHash := make(map[string]uint32)
	for i, s := range m.Shapes {
		if first, ok := byHash[s.Hash]; ok && s.Hash != "" {
			add(WarnDuplicateShape, SeverityWarning, fmt.Sprintf("Shapes[%d]", i),
				"shape %d has the same paths as shape %d", s.AssetID, first)
			continue
		}
		byHash[s.Hash] = s.AssetID
	}

	stage := false
	names := make(map[string]bool)
	for i, t := range m.Timelines {
		field := fmt.Sprintf("Timelines[%d]", i)
		switch t.Type {
		case ir.TimelineStage:
			stage = true
		case ir.TimelineMovieClip:
			if t.Name == m.StageName {
				add(ErrStageNameClash, SeverityError, field+".name",
					"movie clip %d is named like the stage %q", t.AssetID, t.Name)
			}
			if names[t.Name] {
				add(ErrDuplicateName, SeverityError, field+".name",
					"movie clip name %q is already used", t.Name)
			}
			names[t.Name] = true
		}

		// Report each dangling asset once per timeline.
		reported := make(map[uint32]bool)
		for _, f := range t.Frames {
			for _, o := range f.Objects {
				if known[o.Kind][o.AssetID] || reported[o.AssetID] {
					continue
				}
				reported[o.AssetID] = true
				add(ErrDanglingReference, SeverityError, fmt.Sprintf("%s.frames[%d]", field, f.Index),
					"object %d places missing %s %d", o.ObjectID, o.Kind, o.AssetID)
			}
		}
	}
	if !stage {
		add(ErrMissingStage, SeverityError, "Timelines", "no stage timeline")
	}

	timelineNames := make(map[string]bool, len(m.Timelines))
	for _, t := range m.Timelines {
		timelineNames[t.Name] = true
	}
	for i, name := range m.Tweens {
		if !timelineNames[name] {
			add(ErrOrphanTweens, SeverityError, fmt.Sprintf("Tweens[%d]", i),
				"tweens refer to unknown timeline %q", name)
		}
	}
	return r
}

func assetIDs(entries []AssetEntry) []uint32 {
	out := make([]uint32, len(entries))
	for i, e := range entries {
		out[i] = e.AssetID
	}
	return out
}
