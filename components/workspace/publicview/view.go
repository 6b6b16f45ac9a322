package publicview

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/ettle/strcase"
	"github.com/gofiber/fiber/v2"

	workspace "github.com/minibi/go-workspace/components/workspace"
)

// PublicDashboardClient fetches shared dashboards by token.
type PublicDashboardClient interface {
	PublicDashboard(ctx context.Context, token string) (workspace.Dashboard, error)
}

// Config wires the read-only public dashboard route.
type Config struct {
	Gateway  PublicDashboardClient
	Renderer *Renderer
	BasePath string
}

// Handler serves the read-only public dashboard view. No workspace
// hydration happens on this path.
type Handler struct {
	gateway  PublicDashboardClient
	renderer *Renderer
	basePath string
}

// NewHandler builds a Handler with defaults.
func NewHandler(cfg Config) (*Handler, error) {
	if cfg.Gateway == nil {
		return nil, errors.New("publicview: gateway is required")
	}
	renderer := cfg.Renderer
	if renderer == nil {
		renderer = NewRenderer(WithRenderCache(NewChartCache(5 * time.Minute)))
	}
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/public"
	}
	return &Handler{
		gateway:  cfg.Gateway,
		renderer: renderer,
		basePath: basePath,
	}, nil
}

// Register mounts GET <base>/:token on the fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get(h.basePath+"/:token", h.handleView)
}

func (h *Handler) handleView(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Params("token"))
	if token == "" {
		return fiber.NewError(fiber.StatusBadRequest, "share token is required")
	}
	dashboard, err := h.gateway.PublicDashboard(c.Context(), token)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	page, err := h.renderPage(dashboard)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	c.Type("html", "utf-8")
	return c.SendString(page)
}

// renderPage renders the widget sequence only: the public path exposes no
// editing surface and no workspace state.
func (h *Handler) renderPage(dashboard workspace.Dashboard) (string, error) {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>")
	b.WriteString(html.EscapeString(dashboard.Title))
	b.WriteString("</title></head>\n<body>\n<h1>")
	b.WriteString(html.EscapeString(dashboard.Title))
	b.WriteString("</h1>\n")
	for _, widget := range dashboard.Config.Widgets {
		chart, err := h.renderer.RenderWidget(widget)
		if err != nil {
			return "", fmt.Errorf("publicview: render widget %s: %w", widget.ID, err)
		}
		anchor := strcase.ToKebab(widget.Title)
		if anchor == "" {
			anchor = widget.ID
		}
		b.WriteString(fmt.Sprintf("<section id=%q>\n", anchor))
		b.WriteString(chart)
		b.WriteString("</section>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}
