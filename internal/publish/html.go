package publish

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/roach88/sceneforge/internal/settings"
)

//go:embed templates/*.html
var templates embed.FS

// Template file names.
const (
	TemplateHTML            = "index.html"
	TemplateHTMLDebug       = "index-debug.html"
	TemplateHTMLLegacy      = "index-legacy.html"
	TemplateHTMLDebugLegacy = "index-debug-legacy.html"
)

// TemplateName picks the page template for the output version; compressed
// output uses the minified runtime.
func TemplateName(outputVersion string, compressJS bool) string {
	legacy := outputVersion == settings.OutputVersionLegacy
	switch {
	case legacy && compressJS:
		return TemplateHTMLLegacy
	case legacy:
		return TemplateHTMLDebugLegacy
	case compressJS:
		return TemplateHTML
	default:
		return TemplateHTMLDebug
	}
}

// Substitute replaces every ${key} in content with its value. Unknown keys
// are left as they are.
func Substitute(content string, vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "${"+k+"}", vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(content)
}

// HTMLWriter writes the HTML page from a template.
type HTMLWriter struct {
	// Templates overrides the embedded templates. Files are looked up by
	// TemplateName.
	Templates fs.FS
	Logger    logrus.FieldLogger
}

func (w *HTMLWriter) templates() fs.FS {
	if w.Templates != nil {
		return w.Templates
	}
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err) // embedded folder always exists
	}
	return sub
}

// Write renders the page for s into s.HTMLFile and returns its path.
func (w *HTMLWriter) Write(s settings.Publish, vars map[string]string) (string, error) {
	name := TemplateName(s.OutputVersion, s.CompressJS)
	content, err := fs.ReadFile(w.templates(), name)
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", name, err)
	}

	out := s.HTMLFile()
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("create html folder: %w", err)
	}
	if err := os.WriteFile(out, []byte(Substitute(string(content), vars)), 0o644); err != nil {
		return "", fmt.Errorf("write html: %w", err)
	}
	logger(w.Logger).WithFields(logrus.Fields{
		"template": name,
		"path":     out,
	}).Info("HTML written")
	return out, nil
}
