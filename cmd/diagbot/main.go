package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"diagbot/internal/config"
	"diagbot/internal/discord"
	"diagbot/internal/dispatch"
	"diagbot/internal/fetch"
	"diagbot/internal/proxy"
	"diagbot/internal/rules"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:   "diagbot",
		Short: "Diagbot: log-diagnosing Discord bot",
		Long:  "Diagbot watches chat for diagnostic logs (paste links and attachments), replies with known fixes, and serves a web view of text attachments.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json (default: ~/.diagbot/config.json)")

	root.AddCommand(gatewayCmd())
	root.AddCommand(proxyCmd())
	root.AddCommand(statusCmd())
	root.AddCommand(configCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := slog.LevelInfo
	switch cfg.General.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return cfg, nil
}

func gatewayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gateway",
		Short: "Connect to Discord and watch for logs",
		RunE:  runGateway,
	}
}

func runGateway(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Discord.Token == "" {
		return fmt.Errorf("discord token is required: set discord.token or DIAGBOT_TOKEN")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := rules.NewEngine()
	if err != nil {
		return fmt.Errorf("rule engine: %w", err)
	}
	logger.Info("rule engine ready", "rules", engine.Len())

	if cfg.Discord.PasteURL == "" {
		logger.Info("no paste URL configured, attachment views disabled")
	}

	dispatcher := dispatch.New(dispatch.Config{
		Fetcher:  fetch.NewClient(nil, "diagbot/"+version),
		Engine:   engine,
		ViewBase: cfg.Discord.PasteURL,
		Logger:   logger,
	})

	channel := discord.NewChannel(discord.ChannelConfig{
		Token:      cfg.Discord.Token,
		Prefix:     cfg.Discord.Prefix,
		ViewBase:   cfg.Discord.PasteURL,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	logger.Info("gateway starting. Press Ctrl+C to stop.")
	return channel.Start(ctx)
}

func proxyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "proxy",
		Short: "Serve the attachment rendering proxy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := proxy.NewServer(proxy.ServerConfig{
				Addr:       cfg.Proxy.Listen,
				OriginBase: cfg.Proxy.OriginBase,
				UserAgent:  "diagbot-proxy/" + version,
				Logger:     logger,
			})
			return srv.Start(ctx)
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and connectivity status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				logger.Error("config", "path", cfgPath, "loaded", false, "err", err)
				return err
			}
			logger.Info("config", "path", cfgPath, "loaded", true)
			logger.Info("discord", "token_set", cfg.Discord.Token != "", "prefix", cfg.Discord.Prefix)
			logger.Info("attachment views", "enabled", cfg.Discord.PasteURL != "", "paste_url", cfg.Discord.PasteURL)
			logger.Info("proxy", "listen", cfg.Proxy.Listen, "origin", cfg.Proxy.OriginBase)

			engine, err := rules.NewEngine()
			if err != nil {
				logger.Error("rule engine", "ok", false, "err", err)
				return err
			}
			logger.Info("rule engine", "ok", true, "rules", engine.Len())

			client := fetch.SharedHTTPClient(statusProbeTimeout)
			if err := probeOrigin(cmd.Context(), client, cfg.Proxy.OriginBase); err != nil {
				logger.Warn("origin", "reachable", false, "err", err)
			} else {
				logger.Info("origin", "reachable", true)
			}
			return nil
		},
	}
}

const statusProbeTimeout = 5 * time.Second

// probeOrigin checks that the attachment origin answers HTTP at all. Any
// response counts; status verifies a deployment, it does not fetch content.
func probeOrigin(ctx context.Context, client *http.Client, base string) error {
	ctx, cancel := context.WithTimeout(ctx, statusProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, base, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List resolved config values (credentials redacted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			data, _ := json.MarshalIndent(config.Sanitize(cfg), "", "  ")
			fmt.Println(string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(resolveConfigPath())
		},
	})

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("diagbot " + version)
		},
	}
}
