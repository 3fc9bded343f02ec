// Command recallbox runs the spaced-repetition study server, or with
// --import performs a one-shot reconciliation of the configured deck
// sources and exits.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/recallbox/recallbox/internal/config"
	"github.com/recallbox/recallbox/internal/deckimport"
	"github.com/recallbox/recallbox/internal/storage"
	"github.com/recallbox/recallbox/internal/web"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	def := config.Default()

	// Flag defaults mirror Default() so unset flags do not override the
	// file and environment layers.
	flags := pflag.NewFlagSet("recallbox", pflag.ExitOnError)
	flags.String("config", "", "path to YAML config file")
	flags.String("listen", def.Listen, "HTTP listen address")
	flags.String("db_path", def.DBPath, "sqlite database file")
	flags.String("timezone", def.Timezone, "default IANA timezone for stats")
	flags.String("repos_dir", def.ReposDir, "directory for git deck checkouts")
	flags.String("log_level", def.LogLevel, "log level (debug, info, warn, error)")
	flags.StringSlice("sources", nil, "deck sources (directories or git URLs)")
	flags.Bool("import", false, "reconcile the configured sources and exit")
	flags.String("user", "default", "user ID that owns imported decks")
	if err := flags.Parse(args); err != nil {
		return err
	}

	configPath, _ := flags.GetString("config")
	cfg, err := config.Load(configPath, flags)
	if err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	importer := deckimport.New(db, cfg.ReposDir)

	if oneShot, _ := flags.GetBool("import"); oneShot {
		user, _ := flags.GetString("user")
		importer.Run(user, cfg.Sources)
		return nil
	}

	server := web.NewServer(db, importer, cfg.Timezone)
	slog.Info("listening", "addr", cfg.Listen)
	return http.ListenAndServe(cfg.Listen, server)
}
