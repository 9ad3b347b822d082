package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ghuser/stocktake/pkg/app"
	"github.com/ghuser/stocktake/pkg/config"
	"github.com/ghuser/stocktake/pkg/logger"
	appsvcs "github.com/ghuser/stocktake/services/inventory/application/services"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

// cli carries settings shared by every subcommand.
type cli struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:           "stocktake",
		Short:         "Track what you own and how many of each",
		Long:          "stocktake records household items by category and keeps their counts up to date.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return c.initConfig()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/stocktake/config.yaml)")
	pf.String("backend", config.BackendFile, "storage backend ("+strings.Join(config.Backends, ", ")+")")
	pf.String("data-dir", "./data", "directory for the file backend")
	pf.String("sqlite-path", "./data/stocktake.db", "database file for the sqlite backend")
	pf.String("database-url", "", "connection URL for the postgres backend")
	pf.String("redis-url", "", "Redis URL for the summary cache (optional)")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	_ = c.v.BindPFlags(pf)

	root.AddCommand(c.itemsCmd())
	root.AddCommand(c.categoriesCmd())
	root.AddCommand(c.summaryCmd())
	root.AddCommand(c.exportCmd())

	return root
}

func (c *cli) initConfig() error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			c.v.AddConfigPath(filepath.Join(dir, "stocktake"))
		}
		c.v.SetConfigName("config")
		c.v.SetConfigType("yaml")
	}

	c.v.SetEnvPrefix("STOCKTAKE")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// loadConfig builds the shared Config from flags, STOCKTAKE_* variables and the
// config file, in that order of precedence.
func (c *cli) loadConfig() (*config.Config, error) {
	cfg := &config.Config{
		StorageBackend: c.v.GetString("backend"),
		DataDir:        c.v.GetString("data-dir"),
		SQLitePath:     c.v.GetString("sqlite-path"),
		DatabaseURL:    c.v.GetString("database-url"),
		RedisURL:       c.v.GetString("redis-url"),
		LogLevel:       c.v.GetString("log-level"),
		Environment:    config.EnvDevelopment,
		ServiceName:    "stocktake-cli",
		ServiceVersion: version,
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run opens the inventory, calls fn and releases every connection.
func (c *cli) run(cmd *cobra.Command, fn func(ctx context.Context, inv *appsvcs.InventoryService) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel)

	a, err := app.Bootstrap(ctx, cfg, log, app.BootstrapOptions{EventBus: true, Redis: true})
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	svcs, err := appsvcs.New(ctx, a)
	if err != nil {
		return err
	}
	return fn(ctx, svcs.Inventory)
}
