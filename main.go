package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/homepro/siteforge/agent"
	siteforgemcp "github.com/homepro/siteforge/mcp"
	"github.com/homepro/siteforge/preview"
	"github.com/homepro/siteforge/registry"
	"github.com/homepro/siteforge/render"
	"github.com/homepro/siteforge/service"
	"github.com/homepro/siteforge/service/vo"
	"github.com/homepro/siteforge/siteconfig"
)

func main() {
	// Define command line flags
	stdioMode := flag.Bool("stdio", true, "Run the tool server in stdio mode")
	httpAddr := flag.String("http", "", "HTTP server address (e.g., ':8080')")
	mcpEndpoint := flag.String("mcp-endpoint", "/mcp", "Path of the MCP tool endpoint")
	businessSlug := flag.String("business", "", "Business slug to edit")
	templateSlug := flag.String("template", "plumbing", "Template slug")
	directoryURL := flag.String("directory-url", "", "Base URL of the business directory service")
	agentURL := flag.String("agent-url", "", "Base URL of the conversational agent service")
	siteFile := flag.String("site-file", "site.json", "Path of the site config JSON file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	reg := render.Builtin()
	renderer := render.NewRenderer(logger, reg)

	biz := loadBusiness(logger, *directoryURL, *businessSlug, *templateSlug)
	initial := loadSiteConfig(logger, *siteFile, reg, biz)

	sync := preview.NewSynchronizer(logger, preview.DefaultConfig())

	svc := service.New(logger, reg, renderer, biz, initial, service.Options{
		OnConfigChange: func(cfg siteconfig.SiteConfig) {
			if err := persistSiteConfig(*siteFile, cfg); err != nil {
				logger.Error("failed to persist site config", zap.Error(err))
			}
		},
		Notify: sync.ConfigChanged,
	})
	defer svc.Close()

	s := siteforgemcp.NewServer(svc)

	var runner *agent.Runner
	if *agentURL != "" {
		client := agent.NewClient(logger, http.DefaultClient, *agentURL)
		runner = agent.NewRunner(logger, client, sync)
	}

	if *httpAddr != "" {
		handler := siteforgemcp.NewEditorHTTPServer(logger, s, svc, sync, runner, *mcpEndpoint)
		logger.Info("starting editor server", zap.String("addr", *httpAddr))
		if err := http.ListenAndServe(*httpAddr, handler); err != nil {
			logger.Fatal("http server failed", zap.Error(err))
		}
		os.Exit(0)
	}
	// Start the stdio server
	if *stdioMode {
		log.Println("Starting tool server in stdio mode...")
	} else {
		log.Println("Starting tool server in stdio mode (default)...")
	}
	if err := server.ServeStdio(s); err != nil {
		log.Fatal(err)
	}
}

// loadBusiness fetches the business context from the directory service, or
// falls back to a placeholder so the editor works without one.
func loadBusiness(logger *zap.Logger, directoryURL, slug, template string) vo.BusinessContext {
	if directoryURL == "" || slug == "" {
		return vo.BusinessContext{Business: vo.Business{
			Slug: slug, TemplateSlug: template, Name: "Your Business",
		}}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	directory := service.NewHTTPDirectory(http.DefaultClient, directoryURL)
	business, err := directory.GetBusinessBySlugAndTemplate(ctx, slug, template)
	if err != nil || business == nil {
		logger.Warn("business lookup failed, using placeholder",
			zap.String("slug", slug), zap.Error(err))
		return vo.BusinessContext{Business: vo.Business{
			Slug: slug, TemplateSlug: template, Name: "Your Business",
		}}
	}

	offerings, err := directory.GetServicesForBusiness(ctx, business.ID)
	if err != nil {
		logger.Warn("services lookup failed", zap.String("business", business.ID), zap.Error(err))
	}
	return vo.BusinessContext{Business: *business, Offerings: offerings}
}

// loadSiteConfig reads the persisted config, or builds a starter site from the
// registry defaults when none exists yet.
func loadSiteConfig(logger *zap.Logger, path string, reg *registry.Registry, biz vo.BusinessContext) siteconfig.SiteConfig {
	data, err := os.ReadFile(path)
	if err == nil {
		var cfg siteconfig.SiteConfig
		if err := json.Unmarshal(data, &cfg); err == nil && len(cfg.Pages) > 0 {
			return cfg
		}
		logger.Warn("ignoring unreadable site config", zap.String("path", path))
	}

	home := siteconfig.PageConfig{
		ID:    "page-home",
		Slug:  "",
		Title: biz.Business.Name,
	}
	for _, typeTag := range []string{"hero", "trust-bar", "services", "cta", "contact"} {
		if section, ok := reg.DefaultsFor(typeTag); ok {
			home.Sections = append(home.Sections, section)
		}
	}
	return siteconfig.SiteConfig{
		Theme: siteconfig.ThemeConfig{
			Colors: siteconfig.ThemeColors{
				Primary:    "#1d4ed8",
				Accent:     "#f59e0b",
				Background: "#ffffff",
				Text:       "#111827",
				TextMuted:  "#6b7280",
			},
			Fonts:        siteconfig.ThemeFonts{Heading: "Inter", Body: "Inter"},
			BorderRadius: siteconfig.RadiusMd,
		},
		Pages: []siteconfig.PageConfig{home},
	}
}

func persistSiteConfig(path string, cfg siteconfig.SiteConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
