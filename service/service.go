// Package service owns the live editing session for one site: the current
// SiteConfig, the registry-backed metadata queries, and the single serialized
// apply loop every mutation funnels through, whether it came from the form
// editor or from the agent's tools. One writer at a time keeps the document
// invariants intact without locking at each call site.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/homepro/siteforge/registry"
	"github.com/homepro/siteforge/render"
	"github.com/homepro/siteforge/service/vo"
	"github.com/homepro/siteforge/siteconfig"
)

var ErrClosed = errors.New("service closed")

type Service interface {
	// Config returns a snapshot of the current site config.
	Config() siteconfig.SiteConfig

	AddSection(ctx context.Context, slug, typeTag string, position *int, content map[string]any) (siteconfig.SectionConfig, error)
	UpdateSection(ctx context.Context, slug, id string, patch siteconfig.SectionPatch) error
	RemoveSection(ctx context.Context, slug, id string) error
	ReorderSections(ctx context.Context, slug string, orderedIDs []string) error
	ToggleSection(ctx context.Context, slug, id string) error
	UpdateTheme(ctx context.Context, patch siteconfig.ThemePatch) error

	Select(id string)
	Selected() string

	SectionTypes() []registry.TypeInfo
	SectionDefaults() map[string]siteconfig.SectionConfig
	RenderPage(slug string, refreshToken uint64) string
	PageMarkdown(slug string) (vo.Markdown, error)

	Close()
}

// Options carries the optional collaborators of a session. OnConfigChange is
// the sole externally observable write: it receives every accepted config and
// its caller is responsible for durability. Notify pokes the preview
// synchronizer after a direct mutation.
type Options struct {
	OnConfigChange func(siteconfig.SiteConfig)
	Notify         func()
}

type applyRequest struct {
	mutate func(siteconfig.SiteConfig) (siteconfig.SiteConfig, bool)
	reply  chan error
}

type session struct {
	logger   *zap.Logger
	reg      *registry.Registry
	renderer *render.Renderer
	biz      vo.BusinessContext
	opts     Options

	apply chan applyRequest
	reads chan chan siteconfig.SiteConfig
	sel   chan string
	selQ  chan chan string
	quit  chan struct{}
	done  chan struct{}
}

func New(logger *zap.Logger, reg *registry.Registry, renderer *render.Renderer, biz vo.BusinessContext, initial siteconfig.SiteConfig, opts Options) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &session{
		logger:   logger,
		reg:      reg,
		renderer: renderer,
		biz:      biz,
		opts:     opts,
		apply:    make(chan applyRequest),
		reads:    make(chan chan siteconfig.SiteConfig),
		sel:      make(chan string),
		selQ:     make(chan chan string),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.loop(initial)
	return s
}

// loop is the single writer. It owns the config and the editor selection;
// everything else talks to it through channels.
func (s *session) loop(cfg siteconfig.SiteConfig) {
	defer close(s.done)
	var editor siteconfig.EditorState
	for {
		select {
		case <-s.quit:
			return
		case reply := <-s.reads:
			reply <- cfg
		case id := <-s.sel:
			if id == "" {
				editor.SelectedSectionID = ""
			} else {
				editor.OnAdd(id)
			}
		case reply := <-s.selQ:
			reply <- editor.SelectedSectionID
		case req := <-s.apply:
			next, changed := req.mutate(cfg)
			if changed {
				next.Version = cfg.Version + 1
				cfg = next
				if s.opts.OnConfigChange != nil {
					s.opts.OnConfigChange(cfg)
				}
				if s.opts.Notify != nil {
					s.opts.Notify()
				}
			}
			req.reply <- nil
		}
	}
}

func (s *session) Config() siteconfig.SiteConfig {
	reply := make(chan siteconfig.SiteConfig, 1)
	select {
	case s.reads <- reply:
		return <-reply
	case <-s.done:
		return siteconfig.SiteConfig{}
	}
}

func (s *session) submit(ctx context.Context, mutate func(siteconfig.SiteConfig) (siteconfig.SiteConfig, bool)) error {
	req := applyRequest{mutate: mutate, reply: make(chan error, 1)}
	select {
	case s.apply <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrClosed
	}
	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AddSection builds the section before submitting: a registry default clone
// for known types, or an ad hoc section when the agent invents a type and
// supplies its content. Unknown type with no content is refused and no
// partial mutation is applied.
func (s *session) AddSection(ctx context.Context, slug, typeTag string, position *int, content map[string]any) (siteconfig.SectionConfig, error) {
	if typeTag == "" {
		return siteconfig.SectionConfig{}, fmt.Errorf("section type is required")
	}
	section, known := s.reg.DefaultsFor(typeTag)
	if !known {
		if len(content) == 0 {
			return siteconfig.SectionConfig{}, fmt.Errorf("unknown section type %q and no content given", typeTag)
		}
		section = siteconfig.SectionConfig{
			ID:      siteconfig.NewSectionID(typeTag),
			Type:    typeTag,
			Enabled: true,
			Content: map[string]any{},
		}
	}
	for k, v := range content {
		section.Content[k] = v
	}

	err := s.submit(ctx, func(cfg siteconfig.SiteConfig) (siteconfig.SiteConfig, bool) {
		if _, ok := cfg.FindPage(slug); !ok {
			return cfg, false
		}
		return siteconfig.AddSection(cfg, slug, section, position), true
	})
	if err != nil {
		return siteconfig.SectionConfig{}, err
	}
	s.Select(section.ID)
	return section, nil
}

func (s *session) UpdateSection(ctx context.Context, slug, id string, patch siteconfig.SectionPatch) error {
	if id == "" {
		return fmt.Errorf("section id is required")
	}
	return s.submit(ctx, func(cfg siteconfig.SiteConfig) (siteconfig.SiteConfig, bool) {
		if _, ok := cfg.Section(slug, id); !ok {
			return cfg, false
		}
		return siteconfig.UpdateSection(cfg, slug, id, patch), true
	})
}

func (s *session) RemoveSection(ctx context.Context, slug, id string) error {
	if id == "" {
		return fmt.Errorf("section id is required")
	}
	err := s.submit(ctx, func(cfg siteconfig.SiteConfig) (siteconfig.SiteConfig, bool) {
		if _, ok := cfg.Section(slug, id); !ok {
			return cfg, false
		}
		return siteconfig.RemoveSection(cfg, slug, id), true
	})
	if err != nil {
		return err
	}
	if s.Selected() == id {
		s.Select("")
	}
	return nil
}

func (s *session) ReorderSections(ctx context.Context, slug string, orderedIDs []string) error {
	return s.submit(ctx, func(cfg siteconfig.SiteConfig) (siteconfig.SiteConfig, bool) {
		if _, ok := cfg.FindPage(slug); !ok {
			return cfg, false
		}
		return siteconfig.ReorderSections(cfg, slug, orderedIDs), true
	})
}

func (s *session) ToggleSection(ctx context.Context, slug, id string) error {
	if id == "" {
		return fmt.Errorf("section id is required")
	}
	return s.submit(ctx, func(cfg siteconfig.SiteConfig) (siteconfig.SiteConfig, bool) {
		if _, ok := cfg.Section(slug, id); !ok {
			return cfg, false
		}
		return siteconfig.ToggleSection(cfg, slug, id), true
	})
}

func (s *session) UpdateTheme(ctx context.Context, patch siteconfig.ThemePatch) error {
	return s.submit(ctx, func(cfg siteconfig.SiteConfig) (siteconfig.SiteConfig, bool) {
		cfg.Theme = siteconfig.MergeTheme(cfg.Theme, patch)
		return cfg, true
	})
}

func (s *session) Select(id string) {
	select {
	case s.sel <- id:
	case <-s.done:
	}
}

func (s *session) Selected() string {
	reply := make(chan string, 1)
	select {
	case s.selQ <- reply:
		return <-reply
	case <-s.done:
		return ""
	}
}

func (s *session) SectionTypes() []registry.TypeInfo {
	return s.reg.ListAvailable()
}

func (s *session) SectionDefaults() map[string]siteconfig.SectionConfig {
	return s.reg.Defaults()
}

func (s *session) RenderPage(slug string, refreshToken uint64) string {
	return s.renderer.Page(s.Config(), slug, s.biz, refreshToken)
}

func (s *session) PageMarkdown(slug string) (vo.Markdown, error) {
	return s.renderer.PageMarkdown(s.Config(), slug, s.biz)
}

func (s *session) Close() {
	close(s.quit)
	<-s.done
}
