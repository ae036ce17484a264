package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// overlay is the on-disk form of Publish. Every field is optional; unset
// fields keep their default.
type overlay struct {
	BasePath      *string `yaml:"base_path" json:"base_path,omitempty" hcl:"base_path,optional"`
	OutputFile    *string `yaml:"output_file" json:"output_file,omitempty" hcl:"output_file,optional"`
	OutputVersion *string `yaml:"output_version" json:"output_version,omitempty" hcl:"output_version,optional"`
	OutputFormat  *string `yaml:"output_format" json:"output_format,omitempty" hcl:"output_format,optional"`
	StageName     *string `yaml:"stage_name" json:"stage_name,omitempty" hcl:"stage_name,optional"`
	NameSpace     *string `yaml:"namespace" json:"namespace,omitempty" hcl:"namespace,optional"`

	ImagesPath *string `yaml:"images_path" json:"images_path,omitempty" hcl:"images_path,optional"`
	SoundsPath *string `yaml:"sounds_path" json:"sounds_path,omitempty" hcl:"sounds_path,optional"`
	HTMLPath   *string `yaml:"html_path" json:"html_path,omitempty" hcl:"html_path,optional"`
	LibsPath   *string `yaml:"libs_path" json:"libs_path,omitempty" hcl:"libs_path,optional"`

	HTML          *bool `yaml:"html" json:"html,omitempty" hcl:"html,optional"`
	Libs          *bool `yaml:"libs" json:"libs,omitempty" hcl:"libs,optional"`
	Images        *bool `yaml:"images" json:"images,omitempty" hcl:"images,optional"`
	Sounds        *bool `yaml:"sounds" json:"sounds,omitempty" hcl:"sounds,optional"`
	CompactShapes *bool `yaml:"compact_shapes" json:"compact_shapes,omitempty" hcl:"compact_shapes,optional"`
	CompressJS    *bool `yaml:"compress_js" json:"compress_js,omitempty" hcl:"compress_js,optional"`
	LoopTimeline  *bool `yaml:"loop_timeline" json:"loop_timeline,omitempty" hcl:"loop_timeline,optional"`
	Tweens        *bool `yaml:"tweens" json:"tweens,omitempty" hcl:"tweens,optional"`

	Spritesheets     *bool    `yaml:"spritesheets" json:"spritesheets,omitempty" hcl:"spritesheets,optional"`
	SpritesheetSize  *int     `yaml:"spritesheet_size" json:"spritesheet_size,omitempty" hcl:"spritesheet_size,optional"`
	SpritesheetScale *float64 `yaml:"spritesheet_scale" json:"spritesheet_scale,omitempty" hcl:"spritesheet_scale,optional"`

	Debug *bool `yaml:"debug" json:"debug,omitempty" hcl:"debug,optional"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func (o overlay) apply(p Publish) Publish {
	set(&p.BasePath, o.BasePath)
	set(&p.OutputFile, o.OutputFile)
	set(&p.OutputVersion, o.OutputVersion)
	set(&p.OutputFormat, o.OutputFormat)
	set(&p.StageName, o.StageName)
	set(&p.NameSpace, o.NameSpace)
	set(&p.ImagesPath, o.ImagesPath)
	set(&p.SoundsPath, o.SoundsPath)
	set(&p.HTMLPath, o.HTMLPath)
	set(&p.LibsPath, o.LibsPath)
	set(&p.HTML, o.HTML)
	set(&p.Libs, o.Libs)
	set(&p.Images, o.Images)
	set(&p.Sounds, o.Sounds)
	set(&p.CompactShapes, o.CompactShapes)
	set(&p.CompressJS, o.CompressJS)
	set(&p.LoopTimeline, o.LoopTimeline)
	set(&p.Tweens, o.Tweens)
	set(&p.Spritesheets, o.Spritesheets)
	set(&p.SpritesheetSize, o.SpritesheetSize)
	set(&p.SpritesheetScale, o.SpritesheetScale)
	set(&p.Debug, o.Debug)
	return p
}

// Load reads settings from a .cue, .hcl, .yaml or .yml file, applies them
// over Defaults and validates the result. A relative base_path is resolved
// against the settings file's folder.
func Load(path string) (Publish, error) {
	var (
		o   overlay
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		o, err = loadCUE(path)
	case ".hcl":
		o, err = loadHCL(path)
	case ".yaml", ".yml":
		o, err = loadYAML(path)
	default:
		return Publish{}, &LoadError{
			Code:    ErrCodeFormat,
			Message: fmt.Sprintf("unsupported settings format %q (want .cue, .hcl or .yaml)", filepath.Ext(path)),
			File:    path,
		}
	}
	if err != nil {
		return Publish{}, err
	}

	p := o.apply(Defaults())
	if o.BasePath == nil || !filepath.IsAbs(p.BasePath) {
		p.BasePath = filepath.Join(filepath.Dir(path), p.BasePath)
	}
	if err := p.Validate(); err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
		}
		return Publish{}, err
	}
	return p, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRead, Message: err.Error(), File: path}
	}
	return data, nil
}

func loadYAML(path string) (overlay, error) {
	data, err := readFile(path)
	if err != nil {
		return overlay{}, err
	}
	return decodeYAML(path, bytes.NewReader(data))
}

func decodeYAML(path string, r io.Reader) (overlay, error) {
	var o overlay
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return overlay{}, &LoadError{Code: ErrCodeParse, Message: err.Error(), File: path}
	}
	return o, nil
}

func loadCUE(path string) (overlay, error) {
	data, err := readFile(path)
	if err != nil {
		return overlay{}, err
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return overlay{}, cueLoadError(path, err)
	}
	if pub := v.LookupPath(cue.ParsePath("publish")); pub.Exists() {
		v = pub
	}

	var o overlay
	if err := v.Decode(&o); err != nil {
		return overlay{}, cueLoadError(path, err)
	}
	return o, nil
}

// cueLoadError converts the first CUE error to a LoadError carrying its
// source position.
func cueLoadError(path string, err error) *LoadError {
	le := &LoadError{Code: ErrCodeParse, Message: err.Error(), File: path}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return le
	}
	le.Message = errs[0].Error()
	if positions := cueerrors.Positions(errs[0]); len(positions) > 0 && positions[0].IsValid() {
		le.Line = positions[0].Line()
		le.Column = positions[0].Column()
	}
	return le
}

func loadHCL(path string) (overlay, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return overlay{}, hclLoadError(path, diags)
	}

	var o overlay
	diags = gohcl.DecodeBody(file.Body, evalContext(), &o)
	if diags.HasErrors() {
		return overlay{}, hclLoadError(path, diags)
	}
	return o, nil
}

// evalContext exposes the process environment as env.NAME so settings can
// refer to machine-specific folders.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" || !hclIdentifier(name) {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(vars)},
	}
}

func hclIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r == '-' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}

func hclLoadError(path string, diags hcl.Diagnostics) *LoadError {
	le := &LoadError{Code: ErrCodeParse, Message: diags.Error(), File: path}
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		le.Message = d.Summary
		if d.Detail != "" {
			le.Message += ": " + d.Detail
		}
		if d.Subject != nil {
			le.Line = d.Subject.Start.Line
			le.Column = d.Subject.Start.Column
		}
		break
	}
	return le
}
