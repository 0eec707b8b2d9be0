// Package render turns templates plus a data context into the text of one
// generated output. Every output goes through the same three steps:
// resolveTemplate, buildContext and render. The first two run before any
// fan-out and fail fatally; only the last one is safe to run concurrently.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"
	"text/template"
	"time"

	"github.com/spf13/afero"

	"github.com/conneroisu/fpgagen/internal/defaults"
	"github.com/conneroisu/fpgagen/internal/errors"
	"github.com/conneroisu/fpgagen/internal/logging"
)

// Kind is the output kind a job renders.
type Kind string

const (
	KindProject     Kind = "project"
	KindSettings    Kind = "settings"
	KindConstraints Kind = "constraints"
	KindHardwareTop Kind = "hardware_top"
	KindAuxiliary   Kind = "auxiliary"
)

// TemplateExt is appended to a template name when the verbatim name is absent.
const TemplateExt = ".tmpl"

// FunctionsDir holds the auxiliary module templates and outputs.
const FunctionsDir = "functions"

const (
	settingsDateLayout = "15:04:05 January 02,2006"
	projectDateLayout  = "15:04:05 January 02, 2006"
)

// bareComment matches a line holding only a comment marker.
var bareComment = regexp.MustCompile(`(?m)^#\s?\n`)

var templateNames = map[Kind]string{
	KindProject:     "project.qpf",
	KindSettings:    "settings.qsf",
	KindConstraints: "constraints.sdc",
	KindHardwareTop: "top.v",
}

var outputExt = map[Kind]string{
	KindProject:     "qpf",
	KindSettings:    "qsf",
	KindConstraints: "sdc",
	KindHardwareTop: "v",
}

// PrimaryKinds are rendered for every project, in output order.
var PrimaryKinds = []Kind{KindHardwareTop, KindProject, KindSettings, KindConstraints}

// Core is the selected secondary core as seen by the renderer.
type Core struct {
	Variant  string
	Defaults *defaults.CoreDefaults
	// Files are output paths of the core source tree, e.g. mips/sm_top.v.
	Files []string
}

// Input is everything a generate call renders from.
type Input struct {
	ProjectName string
	Board       *defaults.BoardDefaults
	Functions   []string
	Core        *Core
	Message     string
	Created     time.Time
}

// Job is a prepared rendering: a resolved template plus its context.
type Job struct {
	Kind     Kind
	Template string
	Output   string
	text     string
	data     interface{}
}

// Renderer loads templates from a filesystem root.
type Renderer struct {
	fs     afero.Fs
	logger logging.Logger
}

// New creates a renderer reading templates from fs.
func New(fs afero.Fs, logger logging.Logger) *Renderer {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Renderer{
		fs:     fs,
		logger: logger.WithComponent("render"),
	}
}

// Prepare resolves the template for kind and builds its context. module
// names the auxiliary module and is ignored for the primary kinds.
func (r *Renderer) Prepare(ctx context.Context, kind Kind, in *Input, module string) (*Job, error) {
	name, output, err := names(kind, in.ProjectName, module)
	if err != nil {
		return nil, err
	}

	resolved, text, err := r.resolveTemplate(ctx, name)
	if err != nil {
		return nil, err
	}

	data, err := buildContext(kind, in, module)
	if err != nil {
		return nil, err
	}

	return &Job{
		Kind:     kind,
		Template: resolved,
		Output:   output,
		text:     text,
		data:     data,
	}, nil
}

// Execute renders a prepared job. It has no side effects and may run
// concurrently with other jobs.
func (r *Renderer) Execute(ctx context.Context, job *Job) (string, error) {
	tmpl, err := template.New(job.Template).Funcs(funcMap).Option("missingkey=zero").Parse(job.text)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", job.Template, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, job.data); err != nil {
		return "", fmt.Errorf("render %s: %w", job.Template, err)
	}

	r.logger.Debug(ctx, "Rendered template", "template", job.Template, "output", job.Output)

	rendered := joinLines(buf.String())
	if job.Kind == KindConstraints {
		rendered = bareComment.ReplaceAllString(rendered, "\n# ")
	}

	return rendered, nil
}

// Render prepares and executes one job.
func (r *Renderer) Render(ctx context.Context, kind Kind, in *Input, module string) (string, error) {
	job, err := r.Prepare(ctx, kind, in, module)
	if err != nil {
		return "", err
	}

	return r.Execute(ctx, job)
}

// resolveTemplate looks the name up verbatim, then with TemplateExt.
func (r *Renderer) resolveTemplate(ctx context.Context, name string) (string, string, error) {
	var lastErr error
	for _, candidate := range []string{name, name + TemplateExt} {
		data, err := afero.ReadFile(r.fs, candidate)
		if err == nil {
			r.logger.Debug(ctx, "Loaded template", "template", candidate)
			return candidate, string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", "", errors.TemplateNotFound(name, err)
		}
		lastErr = err
	}

	return "", "", errors.TemplateNotFound(name, lastErr)
}

// ModulePath returns the output path of an auxiliary module.
func ModulePath(module string) string {
	return path.Join(FunctionsDir, module+".v")
}

func names(kind Kind, projectName, module string) (string, string, error) {
	if kind == KindAuxiliary {
		if module == "" {
			return "", "", fmt.Errorf("auxiliary module name is required")
		}
		return ModulePath(module), ModulePath(module), nil
	}

	name, ok := templateNames[kind]
	if !ok {
		return "", "", fmt.Errorf("unknown output kind %q", kind)
	}

	return name, projectName + "." + outputExt[kind], nil
}

// joinLines joins the rendered stream with LF line endings.
func joinLines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// FormatDate returns t in UTC in the Quartus date format,
// 12:40:01 December 27,2017, or with sep 12:40:01 December 27, 2017.
func FormatDate(t time.Time, quoted, sep bool) string {
	layout := settingsDateLayout
	if sep {
		layout = projectDateLayout
	}

	formatted := t.UTC().Format(layout)
	if quoted {
		return `"` + formatted + `"`
	}

	return formatted
}

var funcMap = template.FuncMap{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"join":  strings.Join,
	"quote": func(s string) string { return `"` + s + `"` },
}
