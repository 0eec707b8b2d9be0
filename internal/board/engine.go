package board

import (
	"context"
	"time"

	"github.com/spf13/afero"

	"github.com/conneroisu/fpgagen/internal/archive"
	"github.com/conneroisu/fpgagen/internal/assets"
	"github.com/conneroisu/fpgagen/internal/config"
	"github.com/conneroisu/fpgagen/internal/logging"
	"github.com/conneroisu/fpgagen/internal/render"
	"github.com/conneroisu/fpgagen/internal/static"
)

// Engine holds everything shared by the composers it creates: the static
// store, the renderer and the output filesystem. It has no mutable state.
type Engine struct {
	store    *static.Store
	files    *static.Store
	renderer *render.Renderer
	output   afero.Fs
	archiver *archive.Archiver
	logger   logging.Logger
	now      func() time.Time

	workers     int
	license     string
	encoding    string
	defaultName string
	outputDir   string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithOutputFs sets the filesystem projects are dumped and archived to.
func WithOutputFs(fs afero.Fs) Option {
	return func(e *Engine) {
		e.output = fs
	}
}

// WithStaticFs replaces the static assets root.
func WithStaticFs(fs afero.Fs) Option {
	return func(e *Engine) {
		e.store = static.NewStore(fs, e.logger)
	}
}

// WithTemplateFs replaces the templates root.
func WithTemplateFs(fs afero.Fs) Option {
	return func(e *Engine) {
		e.renderer = render.New(fs, e.logger)
	}
}

// WithClock sets the source of project creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine builds an engine from cfg. Empty asset directories select the
// assets embedded in the binary.
func NewEngine(cfg *config.EngineConfig, logger logging.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}

	staticFs := afero.Fs(afero.FromIOFS{FS: assets.Static()})
	if cfg.StaticDir != "" {
		staticFs = afero.NewBasePathFs(afero.NewOsFs(), cfg.StaticDir)
	}
	templateFs := afero.Fs(afero.FromIOFS{FS: assets.Templates()})
	if cfg.TemplateDir != "" {
		templateFs = afero.NewBasePathFs(afero.NewOsFs(), cfg.TemplateDir)
	}

	output := afero.NewOsFs()
	e := &Engine{
		store:       static.NewStore(staticFs, logger),
		renderer:    render.New(templateFs, logger),
		output:      output,
		logger:      logger.WithComponent("board"),
		now:         time.Now,
		workers:     cfg.Workers,
		license:     cfg.License,
		encoding:    cfg.Encoding,
		defaultName: cfg.DefaultProjectName,
		outputDir:   cfg.OutputDir,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.files = static.NewStore(e.output, logger)
	e.archiver = archive.New(e.output, logger, e.workers)

	return e
}

// Board returns a composer for the named board with its defaults loaded.
func (e *Engine) Board(ctx context.Context, name string) (*Composer, error) {
	b, err := LookupBoard(name)
	if err != nil {
		e.logger.Error(ctx, err, "Incorrect board name", "board", name)
		return nil, err
	}

	c := &Composer{
		engine:      e,
		board:       b,
		projectName: e.defaultName,
		logger:      e.logger.With("board", string(b)),
	}
	if err := c.Reset(ctx, ""); err != nil {
		return nil, err
	}

	return c, nil
}

// Store returns the static store the engine reads defaults from.
func (e *Engine) Store() *static.Store {
	return e.store
}

// Archiver returns the archiver writing to the output filesystem.
func (e *Engine) Archiver() *archive.Archiver {
	return e.archiver
}
