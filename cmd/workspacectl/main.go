package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	workspace "github.com/minibi/go-workspace/components/workspace"
	"github.com/minibi/go-workspace/components/workspace/publicview"
	"github.com/minibi/go-workspace/pkg/gateway"
	"github.com/minibi/go-workspace/pkg/telemetry"
)

type cli struct {
	BaseURL string `default:"http://localhost:8000/api" help:"Base URL of the workspace API."`
	User    int64  `required:"" help:"Opaque user identifier passed to the remote service."`
	Prefs   string `type:"path" help:"Path to the YAML preference file (defaults to in-memory)."`
	Verbose bool   `help:"Log workspace events to stderr."`

	Hydrate hydrateCmd `cmd:"" help:"Hydrate the workspace and print its snapshot."`
	Save    saveCmd    `cmd:"" help:"Hydrate, then save the active dashboard under a title."`
	Share   shareCmd   `cmd:"" help:"Hydrate, then request a public share token for the active dashboard."`
	Serve   serveCmd   `cmd:"" help:"Serve the read-only public dashboard view."`
}

type hydrateCmd struct {
	Dataset int64 `help:"Select a specific dataset instead of the resolved one."`
}

type saveCmd struct {
	Title string `required:"" help:"Dashboard title."`
}

type shareCmd struct{}

type serveCmd struct {
	Addr string `default:":8080" help:"Listen address for the public view."`
}

func main() {
	root := &cli{}
	ctx := kong.Parse(root,
		kong.Description("Workspace synchronization client for the dashboard API."),
		kong.UsageOnError(),
	)
	err := ctx.Run(root)
	ctx.FatalIfErrorf(err)
}

func (root *cli) service() (*workspace.Service, error) {
	gw, err := gateway.NewHTTPClient(gateway.HTTPConfig{BaseURL: root.BaseURL})
	if err != nil {
		return nil, err
	}
	opts := workspace.Options{
		Gateway: gw,
		UserID:  root.User,
	}
	if root.Prefs != "" {
		prefs, err := workspace.NewFilePreferenceStore(root.Prefs)
		if err != nil {
			return nil, err
		}
		opts.Preferences = prefs
	}
	if root.Verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		opts.Telemetry = telemetry.NewZap(logger)
	}
	return workspace.NewService(opts), nil
}

// workspaceSummary is the printable projection of a snapshot.
type workspaceSummary struct {
	Dataset    string   `yaml:"dataset,omitempty"`
	Datasets   int      `yaml:"datasets"`
	Dashboard  string   `yaml:"dashboard,omitempty"`
	Dashboards int      `yaml:"dashboards"`
	Widgets    int      `yaml:"widgets"`
	Messages   int      `yaml:"messages"`
	Teams      int      `yaml:"teams"`
	Insights   []string `yaml:"insights,omitempty"`
}

func summarize(snap workspace.Snapshot) workspaceSummary {
	summary := workspaceSummary{
		Datasets:   len(snap.Datasets),
		Dashboards: len(snap.Dashboards),
		Widgets:    len(snap.Widgets),
		Messages:   len(snap.Messages),
		Teams:      len(snap.Teams),
	}
	if snap.Dataset != nil {
		summary.Dataset = fmt.Sprintf("%s (#%d)", snap.Dataset.Name, snap.Dataset.ID)
	}
	if snap.Dashboard != nil {
		summary.Dashboard = fmt.Sprintf("%s (#%d)", snap.Dashboard.Title, snap.Dashboard.ID)
	}
	if snap.Profile != nil {
		summary.Insights = snap.Profile.Insights
	}
	return summary
}

func printSummary(snap workspace.Snapshot) error {
	out, err := yaml.Marshal(summarize(snap))
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func (cmd *hydrateCmd) Run(root *cli) error {
	service, err := root.service()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := service.Hydrate(ctx); err != nil {
		return err
	}
	if cmd.Dataset != 0 {
		if err := service.SelectDataset(ctx, cmd.Dataset); err != nil {
			return err
		}
	}
	return printSummary(service.Store().Snapshot())
}

func (cmd *saveCmd) Run(root *cli) error {
	service, err := root.service()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := service.Hydrate(ctx); err != nil {
		return err
	}
	saved, err := service.SaveDashboard(ctx, cmd.Title)
	if err != nil {
		return err
	}
	fmt.Printf("saved dashboard #%d %q\n", saved.ID, saved.Title)
	return nil
}

func (cmd *shareCmd) Run(root *cli) error {
	service, err := root.service()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := service.Hydrate(ctx); err != nil {
		return err
	}
	shared, err := service.ShareDashboard(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("share token: %s\n", shared.ShareToken)
	return nil
}

func (cmd *serveCmd) Run(root *cli) error {
	gw, err := gateway.NewHTTPClient(gateway.HTTPConfig{BaseURL: root.BaseURL})
	if err != nil {
		return err
	}
	handler, err := publicview.NewHandler(publicview.Config{Gateway: gw})
	if err != nil {
		return err
	}
	app := fiber.New()
	handler.Register(app)
	return app.Listen(cmd.Addr)
}
