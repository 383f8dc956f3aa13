package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/inkpot-app/inkpot/internal"
	"github.com/inkpot-app/inkpot/internal/mcpserver"
	"github.com/inkpot-app/inkpot/internal/porter"
	pkgconfig "github.com/inkpot-app/inkpot/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		// A missing config file means run on defaults.
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, cfg); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// MCP talks over stdout; keep the logger off it.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	svc, st, err := internal.OpenService(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	return mcpserver.New(svc).ServeStdio()
}

func runImport(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := internal.NewLogger(cfg.App.LogLevel)

	svc, st, err := internal.OpenService(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	importer := porter.NewImporter(svc, cfg.Import.PorterConfig(), logger)
	res, err := importer.ImportPath(cmd.StringArg("path"))
	if err != nil {
		return err
	}
	logger.Info("Import finished",
		slog.Int("imported", res.Imported),
		slog.Int("skipped", res.Skipped),
		slog.Int("failed", res.Failed))
	return nil
}

func runExport(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := internal.NewLogger(cfg.App.LogLevel)

	svc, st, err := internal.OpenService(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	notes := svc.FilterNotes("")
	dir := cmd.StringArg("dir")
	if err := porter.ExportAll(notes, dir, cfg.Export.PorterConfig()); err != nil {
		return err
	}
	logger.Info("Export finished", slog.Int("notes", len(notes)), slog.String("dir", dir))
	return nil
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:  "inkpot",
		Usage: "Personal note store with tags, trash, version history, and import/export",
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: runServe,
			},
			{
				Name:   "mcp",
				Usage:  "Run the MCP server on stdio",
				Action: runMCP,
			},
			{
				Name:      "import",
				Usage:     "Import notes from a Markdown/JSON file or directory",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Action:    runImport,
			},
			{
				Name:      "export",
				Usage:     "Export all notes into a directory",
				Arguments: []cli.Argument{&cli.StringArg{Name: "dir"}},
				Action:    runExport,
			},
		},
		DefaultCommand: "serve",
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
