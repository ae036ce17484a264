// Package text assembles classic text resources from paragraph and run
// events.
package text

import (
	"strings"

	"github.com/roach88/sceneforge/internal/ir"
)

var sanitizer = strings.NewReplacer(
	"\r\n", `\n`,
	"\r", `\n`,
	"\n", `\n`,
	"\t", "",
)

// Sanitize prepares a display string for the document: line breaks become
// the two characters `\n` and tabs are dropped.
func Sanitize(s string) string {
	return sanitizer.Replace(s)
}

// Builder accumulates one text resource.
type Builder struct {
	text ir.Text
	para *ir.Paragraph
}

// New opens a text resource.
func New(assetID uint32, aa ir.AntiAlias, content string, behaviour ir.TextBehaviour) *Builder {
	if aa.Mode != ir.AACustom {
		aa.Thickness, aa.Sharpness = 0, 0
	}
	return &Builder{text: ir.Text{
		AssetID:   assetID,
		AntiAlias: aa,
		Content:   Sanitize(content),
		Behaviour: behaviour,
	}}
}

// StartParagraph opens a paragraph. An open paragraph is sealed first.
func (b *Builder) StartParagraph(start, length uint32, style ir.ParagraphStyle) {
	b.EndParagraph()
	b.para = &ir.Paragraph{StartIndex: start, Length: length, Style: style}
}

// AddRun appends a styled run to the open paragraph. It is a no-op when no
// paragraph is open.
func (b *Builder) AddRun(start, length uint32, style ir.TextStyle) {
	if b.para == nil {
		return
	}
	b.para.Runs = append(b.para.Runs, ir.TextRun{StartIndex: start, Length: length, Style: style})
}

// EndParagraph seals the open paragraph.
func (b *Builder) EndParagraph() {
	if b.para == nil {
		return
	}
	b.text.Paragraphs = append(b.text.Paragraphs, *b.para)
	b.para = nil
}

// InParagraph reports whether a paragraph is open.
func (b *Builder) InParagraph() bool {
	return b.para != nil
}

// Build seals any open paragraph and returns the text resource.
func (b *Builder) Build() ir.Text {
	b.EndParagraph()
	return b.text
}
