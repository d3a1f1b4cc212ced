package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"tablebook/internal/auth"
	"tablebook/internal/config"
	"tablebook/internal/db"
	"tablebook/internal/logging"
	"tablebook/internal/menu"
	"tablebook/internal/storage"
)

var fileFlag = &cli.StringFlag{
	Name:     "file",
	Aliases:  []string{"f"},
	Usage:    "menu sheet exported as CSV",
	Required: true,
}

// loadSheet reads and builds the catalog so every command refuses a sheet
// the server would refuse.
func loadSheet(path string, schema menu.Schema) ([]menu.Row, *menu.Catalog, []menu.RowWarning, error) {
	if err := menu.ValidateFileExtension(filepath.Base(path)); err != nil {
		return nil, nil, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "open sheet")
	}
	defer f.Close()

	rows, err := menu.ReadCSV(f)
	if err != nil {
		return nil, nil, nil, err
	}
	catalog, warnings, err := menu.BuildCatalog(rows, schema)
	if err != nil {
		return nil, nil, nil, err
	}
	return rows, catalog, warnings, nil
}

// --------------------------------------------------
// check
// --------------------------------------------------
func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "build the catalog from a CSV and report skipped rows",
		Flags: []cli.Flag{
			fileFlag,
			&cli.StringFlag{Name: "price-column", Value: menu.DefaultSchema().PriceColumn},
		},
		Action: func(cCtx *cli.Context) error {
			schema := menu.DefaultSchema()
			schema.PriceColumn = cCtx.String("price-column")

			_, catalog, warnings, err := loadSheet(cCtx.String("file"), schema)
			if err != nil {
				return err
			}

			out := cCtx.App.Writer
			for _, name := range catalog.Categories() {
				fmt.Fprintf(out, "%s\n", name)
				for _, item := range catalog.Items(name) {
					fmt.Fprintf(out, "  %-30s %s\n", item.Name, item.Price)
				}
			}
			for _, w := range warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			fmt.Fprintf(out, "%d items in %d categories, %d warnings\n",
				catalog.Len(), len(catalog.Categories()), len(warnings))
			return nil
		},
	}
}

// --------------------------------------------------
// import (postgres)
// --------------------------------------------------
func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "replace the menu_rows table with a CSV sheet",
		Flags: []cli.Flag{fileFlag},
		Action: func(cCtx *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			rows, catalog, _, err := loadSheet(cCtx.String("file"), cfg.Schema())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cCtx.Context, time.Minute)
			defer cancel()

			log := logging.New(cfg.AppEnv, cfg.LogLevel)
			pool, err := db.Connect(ctx, cfg.DatabaseURL, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := menu.NewPostgresSource(pool, cfg.Schema()).ReplaceRows(ctx, rows); err != nil {
				return err
			}
			fmt.Fprintf(cCtx.App.Writer, "imported %d rows (%d orderable items)\n", len(rows), catalog.Len())
			return nil
		},
	}
}

// --------------------------------------------------
// publish (R2)
// --------------------------------------------------
func publishCommand() *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "upload a CSV sheet to the R2 bucket the server reads from",
		Flags: []cli.Flag{
			fileFlag,
			&cli.StringFlag{Name: "key", Usage: "object key, defaults to MENU_OBJECT_KEY"},
		},
		Action: func(cCtx *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			path := cCtx.String("file")
			if _, _, _, err := loadSheet(path, cfg.Schema()); err != nil {
				return err
			}

			key := cCtx.String("key")
			if key == "" {
				key = cfg.MenuObjectKey
			}

			client, err := storage.NewR2Client(cCtx.Context, storage.R2Config{
				Endpoint:      cfg.R2Endpoint,
				AccessKey:     cfg.R2AccessKey,
				SecretKey:     cfg.R2SecretKey,
				Bucket:        cfg.R2Bucket,
				PublicBaseURL: cfg.R2PublicBaseURL,
			})
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return errors.Wrap(err, "open sheet")
			}
			defer f.Close()

			url, err := client.Upload(cCtx.Context, key, f, "text/csv")
			if err != nil {
				return err
			}
			fmt.Fprintln(cCtx.App.Writer, url)
			return nil
		},
	}
}

// --------------------------------------------------
// hash-password
// --------------------------------------------------
func hashPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash-password",
		Usage:     "print a bcrypt hash for STAFF_PASSWORD_HASH",
		ArgsUsage: "<password>",
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() != 1 {
				return cli.Exit("expected exactly one password argument", 2)
			}
			hash, err := auth.HashPassword(cCtx.Args().First())
			if err != nil {
				return err
			}
			fmt.Fprintln(cCtx.App.Writer, hash)
			return nil
		},
	}
}
