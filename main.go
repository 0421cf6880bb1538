package main

import (
	"context"
	"os"

	"github.com/famhub/famhub/internal/app"
	"github.com/famhub/famhub/internal/config"
	"github.com/famhub/famhub/pkg/bills"
	"github.com/famhub/famhub/pkg/calendar"
	"github.com/famhub/famhub/pkg/shopping"
	"github.com/famhub/famhub/pkg/tabular"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func init() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	cliApp := &cli.App{
		Name:  "famhub",
		Usage: "Family organizer: shared calendar, shopping list, and bills.",
		Commands: []*cli.Command{
			serveCommand(),
			initTablesCommand(),
		},
		// Plain `famhub` starts the server.
		Action: serveCommand().Action,
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP server.",
		Action: func(c *cli.Context) error {
			application, err := app.NewApplication(c.Context)
			if err != nil {
				log.Fatalf("failed to initialize application: %v", err)
			}
			return application.Run()
		},
	}
}

func initTablesCommand() *cli.Command {
	return &cli.Command{
		Name:  "init-tables",
		Usage: "Create any missing tables with their header rows.",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load("./config/application.yaml")
			if err != nil {
				return err
			}

			store, err := app.OpenStore(c.Context, cfg.Store)
			if err != nil {
				return err
			}

			tables := []struct {
				name    string
				columns []string
			}{
				{cfg.Calendar.Table, calendar.Columns()},
				{cfg.Shopping.Table, shopping.Columns()},
				{cfg.Bills.Table, bills.Columns()},
			}
			for _, table := range tables {
				if err := initTable(c.Context, store, table.name, table.columns); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func initTable(ctx context.Context, store tabular.Store, name string, columns []string) error {
	_, err := store.Read(ctx, name)
	if err == nil {
		log.Infof("table %q already exists, leaving it alone", name)
		return nil
	}
	if !tabular.IsTableNotFound(err) {
		return err
	}

	if err := store.Write(ctx, name, columns, nil); err != nil {
		return err
	}
	log.Infof("created table %q", name)
	return nil
}
