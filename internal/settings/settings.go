// Package settings holds the publish settings of an export run and loads
// them from CUE, HCL or YAML files.
package settings

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Output versions understood by the runtime.
const (
	OutputVersionLegacy  = "1.0"
	OutputVersionCurrent = "2.0"
)

// Output module formats.
const (
	FormatCommonJS = "cjs"
	FormatES6      = "es6"
)

// Publish is the complete set of publish settings.
type Publish struct {
	// BasePath is the folder every output path is relative to.
	BasePath string

	OutputFile    string // e.g. "game.js"; the data file is "game.json"
	OutputVersion string
	OutputFormat  string
	StageName     string
	NameSpace     string

	ImagesPath string // relative folder, e.g. "images/"
	SoundsPath string
	HTMLPath   string // relative file, e.g. "index.html"
	LibsPath   string

	HTML          bool
	Libs          bool
	Images        bool
	Sounds        bool
	CompactShapes bool
	CompressJS    bool
	LoopTimeline  bool
	Tweens        bool

	Spritesheets     bool
	SpritesheetSize  int
	SpritesheetScale float64

	// Debug writes an indented data file and passes --debug to the compiler.
	Debug bool
}

// Defaults returns the settings used when a file does not set a value.
func Defaults() Publish {
	return Publish{
		BasePath:         ".",
		OutputFile:       "output.js",
		OutputVersion:    OutputVersionCurrent,
		OutputFormat:     FormatCommonJS,
		StageName:        "stage",
		NameSpace:        "lib",
		ImagesPath:       "images/",
		SoundsPath:       "sounds/",
		HTMLPath:         "index.html",
		LibsPath:         "libs/",
		HTML:             true,
		Libs:             true,
		Images:           true,
		Sounds:           true,
		CompactShapes:    true,
		CompressJS:       true,
		LoopTimeline:     true,
		Spritesheets:     true,
		SpritesheetSize:  1024,
		SpritesheetScale: 1,
	}
}

// Validate checks that the settings can drive an export.
func (p Publish) Validate() error {
	switch {
	case strings.TrimSpace(p.OutputFile) == "":
		return invalid("output_file must not be empty")
	case p.StageName == "":
		return invalid("stage_name must not be empty")
	case p.OutputVersion != OutputVersionLegacy && p.OutputVersion != OutputVersionCurrent:
		return invalid(fmt.Sprintf("output_version must be %q or %q, got %q",
			OutputVersionLegacy, OutputVersionCurrent, p.OutputVersion))
	case p.OutputFormat != FormatCommonJS && p.OutputFormat != FormatES6:
		return invalid(fmt.Sprintf("output_format must be %q or %q, got %q",
			FormatCommonJS, FormatES6, p.OutputFormat))
	case p.Spritesheets && p.SpritesheetSize <= 0:
		return invalid("spritesheet_size must be positive")
	case p.Spritesheets && p.SpritesheetScale <= 0:
		return invalid("spritesheet_scale must be positive")
	case p.HTML && p.HTMLPath == "":
		return invalid("html_path must be set when html is enabled")
	}
	return nil
}

// OutputName is OutputFile without its extension.
func (p Publish) OutputName() string {
	base := path.Base(filepath.ToSlash(p.OutputFile))
	return strings.TrimSuffix(base, path.Ext(base))
}

// DataFile is the absolute-or-base-relative path of the scene document.
func (p Publish) DataFile() string {
	return filepath.Join(p.BasePath, p.OutputName()+".json")
}

// ImagesDir is the folder bitmaps are exported into.
func (p Publish) ImagesDir() string {
	return filepath.Join(p.BasePath, filepath.FromSlash(p.ImagesPath))
}

// SoundsDir is the folder sounds are exported into.
func (p Publish) SoundsDir() string {
	return filepath.Join(p.BasePath, filepath.FromSlash(p.SoundsPath))
}

// HTMLFile is the path of the generated HTML page.
func (p Publish) HTMLFile() string {
	return filepath.Join(p.BasePath, filepath.FromSlash(p.HTMLPath))
}

// RelDir trims the trailing slash off a configured folder for use as a
// document-relative prefix.
func RelDir(dir string) string {
	return strings.TrimSuffix(filepath.ToSlash(dir), "/")
}
