// Package library checks and normalizes the symbol library of a scene
// document: the timelines, the names they are exported under, and the
// assets their frames refer to.
package library

import (
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/sceneforge/internal/ir"
	"github.com/roach88/sceneforge/internal/timeline"
)

// Rename records a timeline whose exported name changed.
type Rename struct {
	AssetID uint32
	From    string
	To      string
}

// symbol is a view of one timeline shared by documents and manifests.
type symbol struct {
	assetID  uint32
	name     *string
	typ      *ir.TimelineType
	graphics []uint32 // asset ids placed as graphics, in frame order
}

// Normalize fixes up timeline names of a finished document in place:
//
//   - a timeline placed anywhere as a graphic becomes a graphic and is
//     renamed "GraphicN", skipping names already in use, unless it
//     already has a name of that form;
//   - movie clip names are made unique with _N suffixes and never equal
//     the stage name.
//
// Tween groups follow the timelines they belong to.
func Normalize(doc *ir.Document) []Rename {
	syms := make([]symbol, len(doc.Timelines))
	for i := range doc.Timelines {
		t := &doc.Timelines[i]
		syms[i] = symbol{assetID: t.AssetID, name: &t.Name, typ: &t.Type}
		for _, f := range t.Frames {
			for _, p := range f.Objects {
				if p.Kind == ir.KindGraphic {
					syms[i].graphics = append(syms[i].graphics, p.AssetID)
				}
			}
		}
	}
	tweens := make([]*string, len(doc.Tweens))
	for i := range doc.Tweens {
		tweens[i] = &doc.Tweens[i].TimelineName
	}
	return normalize(syms, doc.Meta.StageName, tweens)
}

func normalize(syms []symbol, stageName string, tweens []*string) []Rename {
	var renames []Rename

	taken := make(map[string]int, len(syms))
	for _, s := range syms {
		taken[*s.name]++
	}

	graphics := 0
	for _, s := range syms {
		for _, id := range s.graphics {
			i := slices.IndexFunc(syms, func(t symbol) bool { return t.assetID == id })
			if i < 0 || *syms[i].typ == ir.TimelineGraphic {
				continue
			}
			target := syms[i]
			*target.typ = ir.TimelineGraphic
			// Unnamed symbols already carry a unique GraphicN.
			if isGraphicName(*target.name) && taken[*target.name] == 1 {
				continue
			}
			var name string
			for {
				graphics++
				name = "Graphic" + strconv.Itoa(graphics)
				if taken[name] == 0 {
					break
				}
			}
			taken[name]++
			renames = append(renames, Rename{AssetID: target.assetID, From: *target.name, To: name})
			*target.name = name
		}
	}

	names := make(map[string]bool, len(syms))
	for _, s := range syms {
		if *s.typ != ir.TimelineMovieClip {
			continue
		}
		name := *s.name
		for names[name] || name == stageName {
			name = timeline.NextVersion(name)
		}
		names[name] = true
		if name != *s.name {
			renames = append(renames, Rename{AssetID: s.assetID, From: *s.name, To: name})
			*s.name = name
		}
	}

	// Each rename moves the first tween group still carrying the old name.
	moved := make([]bool, len(tweens))
	for _, r := range renames {
		for i, tn := range tweens {
			if !moved[i] && *tn == r.From {
				*tn = r.To
				moved[i] = true
				break
			}
		}
	}
	return renames
}

// isGraphicName reports whether name has the GraphicN form.
func isGraphicName(name string) bool {
	n, ok := strings.CutPrefix(name, "Graphic")
	if !ok {
		return false
	}
	i, err := strconv.Atoi(n)
	return err == nil && i > 0 && strconv.Itoa(i) == n
}
