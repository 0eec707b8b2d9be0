package board

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/conneroisu/fpgagen/internal/archive"
	"github.com/conneroisu/fpgagen/internal/defaults"
	"github.com/conneroisu/fpgagen/internal/errors"
	"github.com/conneroisu/fpgagen/internal/logging"
	"github.com/conneroisu/fpgagen/internal/project"
	"github.com/conneroisu/fpgagen/internal/render"
	"github.com/conneroisu/fpgagen/internal/validation"
	"github.com/conneroisu/fpgagen/internal/workerpool"
)

// State is the lifecycle state of a Composer.
type State int

const (
	StateUninitialized State = iota
	StateLoaded
	StateConfigured
	StateGenerated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoaded:
		return "loaded"
	case StateConfigured:
		return "configured"
	case StateGenerated:
		return "generated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Composer owns the configuration of one board: it loads the defaults,
// applies selection filters to a working copy and renders projects from
// it. The loaded defaults are never modified. A Composer is not safe for
// concurrent use.
type Composer struct {
	engine *Engine
	board  Board
	logger logging.Logger

	state    State
	source   string
	defaults *defaults.BoardDefaults
	working  *defaults.BoardDefaults

	projectName string
	message     string
	functions   []string
	core        CoreVariant
	created     time.Time

	project *project.Project
}

// Board returns the board the composer was created for.
func (c *Composer) Board() Board {
	return c.board
}

// State returns the current lifecycle state.
func (c *Composer) State() State {
	return c.state
}

// ProjectName returns the current project name.
func (c *Composer) ProjectName() string {
	return c.projectName
}

// Functions returns the selected auxiliary modules.
func (c *Composer) Functions() []string {
	return slices.Clone(c.functions)
}

// Core returns the selected core variant.
func (c *Composer) Core() CoreVariant {
	return c.core
}

// Defaults returns a copy of the loaded board defaults.
func (c *Composer) Defaults() *defaults.BoardDefaults {
	if c.defaults == nil {
		return nil
	}

	return c.defaults.Clone()
}

// Reset reloads the board defaults from the static store, or from
// overridePath on the output filesystem when it is set, and discards the
// working copy, the selection and any generated project.
func (c *Composer) Reset(ctx context.Context, overridePath string) error {
	source := c.board.StaticName()
	store := c.engine.store
	if overridePath != "" {
		source = overridePath
		store = c.engine.files
	}

	doc, err := store.LoadDocument(source)
	if err != nil {
		c.logger.Error(ctx, err, "Cannot load board defaults", "source", source)
		return err
	}

	loaded, err := defaults.DecodeBoard(source, doc)
	if err != nil {
		c.logger.Error(ctx, err, "Malformed board defaults", "source", source)
		return err
	}

	c.source = overridePath
	c.defaults = loaded
	c.working = loaded.Clone()
	c.message = loaded.Misc.Message
	c.functions = nil
	c.core = CoreNone
	c.created = c.engine.now()
	c.project = nil
	c.state = StateLoaded

	c.logger.Debug(ctx, "Board defaults loaded",
		"source", source,
		"features", strings.Join(loaded.FeatureKeys(), ","))

	return nil
}

// Setup applies selection filters to a working copy. Unless WithoutReset
// is given the defaults are reloaded first, so filters never accumulate.
// Without a feature filter every feature key is excluded.
func (c *Composer) Setup(ctx context.Context, opts ...SetupOption) error {
	cfg := newSetupConfig(opts)

	if cfg.reset || c.state == StateUninitialized {
		if err := c.Reset(ctx, c.source); err != nil {
			return err
		}
	}

	if cfg.hasProjectName {
		if err := c.setProjectName(ctx, cfg.projectName); err != nil {
			return err
		}
	}

	working := c.working.Clone()
	features := cfg.features
	if features == nil {
		features = map[string]bool{}
	}
	working.Settings.UserAssignments = defaults.FilterFeatures(working.Settings.UserAssignments, features)
	working.Hardware.Assignments = defaults.FilterFeatures(working.Hardware.Assignments, features)

	if err := working.Hardware.Functions.Merge(cfg.params); err != nil {
		return err
	}
	if cfg.outputDir != "" {
		working.Settings.ProjectOutputDirectory = cfg.outputDir
	}

	c.working = working
	c.functions = c.selectFunctions(ctx, cfg.functions)
	c.core = c.selectCore(ctx, cfg.core)
	if cfg.message != "" {
		c.message = cfg.message
	}
	c.state = StateConfigured

	c.logger.Debug(ctx, "Board configured",
		"project_name", c.projectName,
		"features", strings.Join(working.FeatureKeys(), ","),
		"functions", strings.Join(c.functions, ","),
		"core", string(c.core))

	return nil
}

// setProjectName unwraps list values down to their first element and then
// validates the result.
func (c *Composer) setProjectName(ctx context.Context, value interface{}) error {
	v := reflect.ValueOf(value)
	for v.IsValid() && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) {
		c.logger.Warn(ctx, nil, "Incorrect project name", "project_name", fmt.Sprint(v.Interface()))
		if v.Len() == 0 {
			v = reflect.Value{}
			break
		}
		v = v.Index(0)
		for v.Kind() == reflect.Interface && !v.IsNil() {
			v = v.Elem()
		}
	}

	name := ""
	if v.IsValid() && !(v.Kind() == reflect.Interface && v.IsNil()) {
		if v.Kind() == reflect.String {
			name = v.String()
		} else {
			name = fmt.Sprint(v.Interface())
		}
	}

	if err := validation.ValidateProjectName(name); err != nil {
		c.logger.Error(ctx, err, "Invalid project name", "project_name", name)
		return err
	}
	c.projectName = name

	return nil
}

func (c *Composer) selectFunctions(ctx context.Context, filter map[string]bool) []string {
	var selected []string
	for name, enabled := range filter {
		if enabled && !IsFunction(name) {
			c.logger.Warn(ctx, nil, "Unknown function ignored", "function", name)
		}
	}
	for _, name := range FunctionNames() {
		if filter[name] {
			selected = append(selected, name)
		}
	}

	return selected
}

func (c *Composer) selectCore(ctx context.Context, variant string) CoreVariant {
	core, ok := ParseCoreVariant(variant)
	if !ok {
		c.logger.Warn(ctx, errors.UnsupportedCoreVariant(variant), "Core variant ignored", "core", variant)
	}

	return core
}

// Generate renders a fresh project from the working copy. When options are
// given Setup runs first. Configuration errors abort before any rendering;
// render failures are collected per output and fail the call as a whole,
// leaving the previous project in place.
func (c *Composer) Generate(ctx context.Context, opts ...SetupOption) (*project.Project, error) {
	if len(opts) > 0 || c.state == StateUninitialized {
		if err := c.Setup(ctx, opts...); err != nil {
			return nil, err
		}
	}

	op := logging.StartOperation(c.logger, "generate")

	license, err := c.engine.store.LoadAndDecode(c.engine.license, c.engine.encoding)
	if err != nil {
		op.EndWithError(ctx, err)
		return nil, err
	}

	in := &render.Input{
		ProjectName: c.projectName,
		Board:       c.working,
		Functions:   slices.Clone(c.functions),
		Message:     c.message,
		Created:     c.created,
	}

	coreFiles, err := c.loadCore(ctx, in)
	if err != nil {
		op.EndWithError(ctx, err)
		return nil, err
	}

	jobs, err := c.prepare(ctx, in)
	if err != nil {
		op.EndWithError(ctx, err)
		return nil, err
	}

	results := workerpool.Run(ctx, c.engine.workers, jobs, c.engine.renderer.Execute)
	if failed := workerpool.Failures(results); failed > 0 {
		collector := errors.NewErrorCollector()
		for i, result := range results {
			if result.Err != nil {
				c.logger.Warn(ctx, result.Err, "Output was not rendered", "output", jobs[i].Output)
				collector.Add("render", jobs[i].Output, result.Err)
			}
		}
		err := errors.RenderFailed(failed, collector.Err())
		op.EndWithError(ctx, err)
		return nil, err
	}

	p := project.New(c.projectName, c.created)
	p.Files.Set(c.engine.license, license)
	for i, result := range results {
		p.Files.Set(jobs[i].Output, result.Value)
	}
	for _, file := range coreFiles {
		p.Files.Set(file.Path, string(file.Content))
	}

	c.project = p
	c.state = StateGenerated
	op.End(ctx, "project_name", c.projectName, "files", p.Files.Len())

	return p, nil
}

// prepare resolves every template and context before any rendering starts.
func (c *Composer) prepare(ctx context.Context, in *render.Input) ([]*render.Job, error) {
	jobs := make([]*render.Job, 0, len(render.PrimaryKinds)+len(in.Functions))
	for _, kind := range render.PrimaryKinds {
		job, err := c.engine.renderer.Prepare(ctx, kind, in, "")
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	for _, name := range in.Functions {
		job, err := c.engine.renderer.Prepare(ctx, render.KindAuxiliary, in, name)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// loadCore reads the selected core bundle and its source tree. The listing
// is taken on every call.
func (c *Composer) loadCore(ctx context.Context, in *render.Input) ([]archive.File, error) {
	if c.core == CoreNone {
		return nil, nil
	}

	store := c.engine.store
	bundle := path.Join(CoreStaticDir, coreBundle)
	doc, err := store.LoadDocument(bundle)
	if err != nil {
		return nil, err
	}
	core, err := defaults.DecodeCore(bundle, doc)
	if err != nil {
		return nil, err
	}

	dir := path.Join(CoreStaticDir, string(c.core))
	sources, err := store.ListTree(dir, core.Exclude...)
	if err != nil {
		return nil, err
	}

	files := make([]archive.File, 0, len(sources)+1)
	for _, rel := range sources {
		content, err := store.ReadFile(path.Join(dir, rel))
		if err != nil {
			return nil, err
		}
		files = append(files, archive.File{Path: path.Join(CoreOutputDir, rel), Content: content})
	}

	payload, err := store.ReadFile(path.Join(CoreStaticDir, core.Payload))
	if err != nil {
		return nil, err
	}
	files = append(files, archive.File{Path: path.Join(CoreOutputDir, path.Base(core.Payload)), Content: payload})

	paths := make([]string, len(files))
	for i, file := range files {
		paths[i] = file.Path
	}
	core.Settings.SourceFiles = paths
	in.Core = &render.Core{Variant: string(c.core), Defaults: core, Files: paths}

	c.logger.Debug(ctx, "Core loaded", "core", string(c.core), "files", len(files))

	return files, nil
}

// Project returns the last generated project.
func (c *Composer) Project() (*project.Project, error) {
	if c.state != StateGenerated || c.project == nil {
		return nil, errors.NotGenerated("project")
	}

	return c.project, nil
}

// Dump writes the generated project to dir, or to the project name under
// the configured output directory when dir is empty.
func (c *Composer) Dump(ctx context.Context, dir string, rewrite bool) (*project.DumpResult, error) {
	p, err := c.Project()
	if err != nil {
		return nil, errors.NotGenerated("dump")
	}
	if dir == "" {
		dir = filepath.Join(c.engine.outputDir, p.Name)
	}

	result, err := project.Dump(ctx, c.engine.output, p.Files, dir, project.DumpOptions{
		Rewrite: rewrite,
		Workers: c.engine.workers,
		Logger:  c.logger,
	})
	if err != nil {
		return nil, err
	}
	if result.Failed() > 0 {
		c.logger.Warn(ctx, result.Err(), "Project dumped with failures", "path", dir, "failed", result.Failed())
	}

	return result, nil
}

// Archive writes the generated project to an archive at dest, or to the
// project name under the configured output directory when dest is empty.
// The format follows the destination name.
func (c *Composer) Archive(ctx context.Context, dest string, rewrite bool) (*archive.Result, error) {
	p, err := c.Project()
	if err != nil {
		return nil, errors.NotGenerated("archive")
	}
	if dest == "" {
		dest = filepath.Join(c.engine.outputDir, p.Name)
	}

	return c.engine.archiver.Write(ctx, Entries(p), dest, archive.Options{
		Rewrite: rewrite,
		ModTime: p.Created,
	})
}

// ArchiveBytes returns the generated project as an in-memory tar archive.
func (c *Composer) ArchiveBytes(ctx context.Context) ([]byte, error) {
	p, err := c.Project()
	if err != nil {
		return nil, errors.NotGenerated("archive")
	}

	data, _, err := c.engine.archiver.Bytes(ctx, Entries(p), p.Created)
	return data, err
}

// Entries converts the project files into archive entries: root files stay
// flat and every group becomes one directory entry.
func Entries(p *project.Project) []archive.Entry {
	root, groups := p.Files.Groups()

	entries := make([]archive.Entry, 0, len(root)+len(groups))
	for _, name := range root {
		content, _ := p.Files.Get(name)
		entries = append(entries, archive.Entry{Name: name, Content: []byte(content)})
	}

	seen := make(map[string]bool, len(groups))
	for _, name := range p.Files.Paths() {
		dir, _, nested := strings.Cut(name, "/")
		if !nested || seen[dir] {
			continue
		}
		seen[dir] = true

		group := archive.Entry{Name: dir, Children: make([]archive.Entry, 0, len(groups[dir]))}
		for _, member := range groups[dir] {
			content, _ := p.Files.Get(member)
			group.Children = append(group.Children, archive.Entry{
				Name:    strings.TrimPrefix(member, dir+"/"),
				Content: []byte(content),
			})
		}
		entries = append(entries, group)
	}

	return entries
}
