package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"coffeeshell/config"
	"coffeeshell/db"
	"coffeeshell/logging"
	"coffeeshell/services"
	"coffeeshell/shell"

	"github.com/AlecAivazis/survey/v2/terminal"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: coffeeshell <command>")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  init order  Start a new coffee order")
	fmt.Fprintln(w, "  migrate     Apply the database schema")
}

type command int

const (
	cmdUnknown command = iota
	cmdUsage
	cmdOrder
	cmdMigrate
)

func parseCommand(args []string) command {
	switch {
	case len(args) == 0:
		return cmdUsage
	case len(args) == 2 && args[0] == "init" && args[1] == "order":
		return cmdOrder
	case len(args) == 1 && args[0] == "migrate":
		return cmdMigrate
	default:
		return cmdUnknown
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := parseCommand(args)
	switch cmd {
	case cmdUsage:
		usage(stdout)
		return 1
	case cmdUnknown:
		fmt.Fprintln(stderr, "Unknown command.")
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 1
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(stderr, "logger:", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintln(stderr, "db:", err)
		return 1
	}
	defer closeStore()

	if cmd == cmdMigrate {
		if err := applyMigrations(ctx, store, cfg.DB.Driver, true); err != nil {
			fmt.Fprintln(stderr, "migrate:", err)
			return 1
		}
		return 0
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 1
	}
	if cfg.AutoMigrate {
		if err := applyMigrations(ctx, store, cfg.DB.Driver, false); err != nil {
			fmt.Fprintln(stderr, "migrate:", err)
			return 1
		}
	}

	deps := shell.Deps{
		Auth:     services.NewAccounts(store),
		Gateway:  services.NewStripeGateway(cfg.Stripe),
		Orders:   store,
		Prompter: shell.NewTerminalPrompter(os.Stdin, os.Stdout, stderr),
		Link:     shell.QRRenderer{},
		Out:      stdout,
		Logger:   logger,
	}
	if cfg.NotifyEnabled() {
		n, err := services.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			logger.Warn("shop notifier disabled", zap.Error(err))
		} else {
			deps.Notifier = n
		}
	}

	res, err := shell.NewSequencer(deps).Run(ctx)
	if err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			fmt.Fprintln(stderr, "Interrupted.")
		} else {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	logger.Debug("order flow finished", zap.Stringer("outcome", res.Outcome))
	return 0
}

func openStore(ctx context.Context, cfg config.DBConfig) (services.Store, func(), error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return services.NewSQLiteStore(conn), func() { _ = conn.Close() }, nil
	case config.DriverPostgres:
		pool, err := db.OpenPostgres(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return services.NewPostgresStore(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}
