package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/vaultpress/internal"
	pkgconfig "github.com/starford/vaultpress/pkg/config"
)

var version = "dev"

type runner func(ctx context.Context, opts ...internal.Option) error

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	found, err := pkgconfig.LoadOptional(configPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if !found {
		slog.Warn("config file not found, using defaults", slog.String("path", configPath))
	}
	if v := cmd.String("vault"); v != "" {
		cfg.Vault.Path = v
	}
	if cmd.Bool("production") {
		cfg.App.Env = internal.EnvProduction
	}
	return cfg, nil
}

func action(run runner, extra func(cmd *cli.Command) []internal.Option) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		opts := []internal.Option{
			internal.WithConfig(cfg),
			internal.WithVersion(version),
		}
		if extra != nil {
			opts = append(opts, extra(cmd)...)
		}
		if err := run(ctx, opts...); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}
		return nil
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "vaultpress",
		Usage:   "Publish an interlinked Markdown vault and blog as a browsable site",
		Version: version,
		Action:  action(internal.Run, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "vault",
				Usage:   "Override the vault directory",
				Sources: cli.EnvVars("VAULT_PATH"),
			},
			&cli.BoolFlag{
				Name:    "production",
				Usage:   "Hide unpublished notes and draft posts",
				Sources: cli.EnvVars("APP_PRODUCTION"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the site and JSON API over HTTP",
				Action: action(internal.Run, nil),
			},
			{
				Name:  "build",
				Usage: "Render the site into a static output directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output directory (defaults to build.out_dir)",
					},
				},
				Action: action(internal.Build, func(cmd *cli.Command) []internal.Option {
					if out := cmd.String("out"); out != "" {
						return []internal.Option{internal.WithOutDir(out)}
					}
					return nil
				}),
			},
			{
				Name:   "tree",
				Usage:  "Print the vault navigation tree",
				Action: action(internal.Tree, nil),
			},
			{
				Name:   "mcp",
				Usage:  "Serve read-only vault tools over MCP stdio",
				Action: action(internal.ServeMCP, nil),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
