package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Manage the stock ledger schema and demo data",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Apply the database schema",
				Flags: []cli.Flag{newDBURLFlag()},
				Action: func(c *cli.Context) error {
					db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()

					if _, err := db.ExecContext(c.Context, schema); err != nil {
						return fmt.Errorf("failed to apply schema: %w", err)
					}

					log.Println("schema applied")
					return nil
				},
			},
			{
				Name:  "demo",
				Usage: "Load demo stores, catalog and stock",
				Flags: []cli.Flag{newDBURLFlag()},
				Action: func(c *cli.Context) error {
					db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()

					if _, err := db.ExecContext(c.Context, demoData); err != nil {
						return fmt.Errorf("failed to load demo data: %w", err)
					}

					log.Println("demo data loaded")
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
