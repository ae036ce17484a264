package builder

import (
	"os"
	"path/filepath"

	"github.com/roach88/sceneforge/internal/ir"
)

// Serialize encodes the document without writing it.
func Serialize(doc *ir.Document, indent string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if indent != "" {
		data, err = ir.MarshalIndent(doc, indent)
	} else {
		data, err = ir.Marshal(doc)
	}
	if err != nil {
		return nil, &SerializationError{Err: err}
	}
	return data, nil
}

// write serializes the document to path, creating its folder first.
func (b *Builder) write(path string) error {
	data, err := Serialize(b.doc, b.indent)
	if err != nil {
		return err
	}
	if err := b.dirs.MkdirAll(filepath.Dir(path)); err != nil {
		return &SerializationError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &SerializationError{Path: path, Err: err}
	}
	return nil
}
