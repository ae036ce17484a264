package builder

import (
	"github.com/roach88/sceneforge/internal/ir"
	"github.com/roach88/sceneforge/internal/text"
)

// StartText opens a text resource. The content is sanitized for display.
func (b *Builder) StartText(resID uint32, aa ir.AntiAlias, content string, behaviour ir.TextBehaviour) error {
	const event = "StartText"
	if _, err := b.expect(event, "", scopeTimeline); err != nil {
		return err
	}
	if err := b.claim(event, collectionTexts, resID); err != nil {
		return err
	}
	b.push(&scope{kind: scopeText, resID: resID, text: text.New(resID, aa, content, behaviour)})
	return nil
}

// EndText closes the text and appends it to the document.
func (b *Builder) EndText(resID uint32) error {
	const event = "EndText"
	s, err := b.pop(event, scopeText)
	if err != nil {
		return err
	}
	if s.resID != resID {
		return idMismatch(event, s.resID, resID)
	}
	b.doc.Texts = append(b.doc.Texts, s.text.Build())
	return nil
}

// StartParagraph opens a paragraph of the current text.
func (b *Builder) StartParagraph(start, length uint32, style ir.ParagraphStyle) error {
	s, err := b.expect("StartParagraph", scopeText)
	if err != nil {
		return err
	}
	s.text.StartParagraph(start, length, style)
	b.push(&scope{kind: scopeParagraph, resID: s.resID, text: s.text})
	return nil
}

// EndParagraph seals the paragraph.
func (b *Builder) EndParagraph() error {
	s, err := b.pop("EndParagraph", scopeParagraph)
	if err != nil {
		return err
	}
	s.text.EndParagraph()
	return nil
}

// AddTextRun appends a styled run to the open paragraph.
func (b *Builder) AddTextRun(start, length uint32, style ir.TextStyle) error {
	s, err := b.expect("AddTextRun", scopeParagraph)
	if err != nil {
		return err
	}
	s.text.AddRun(start, length, style)
	return nil
}
