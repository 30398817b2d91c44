package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"trust_feed/internal/pkg/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "migrate",
		Usage: "apply database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Value: "migrations", Usage: "migrations directory"},
		},
		Commands: []*cli.Command{
			{Name: "up", Usage: "apply all pending migrations", Action: up},
			{Name: "down", Usage: "roll back one migration", Action: down},
			{
				Name:      "force",
				Usage:     "mark a version as clean after a failed migration",
				ArgsUsage: "<version>",
				Action:    force,
			},
			{Name: "version", Usage: "print the current version", Action: version},
		},
		// 不带子命令时等同于 up
		Action: up,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func open(cctx *cli.Context) (*migrate.Migrate, error) {
	config.LoadConfig()
	return migrate.New("file://"+cctx.String("path"), config.GlobalConfig.Database.URL())
}

func up(cctx *cli.Context) error {
	m, err := open(cctx)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		var dirty migrate.ErrDirty
		if errors.As(err, &dirty) {
			log.Printf("Database is dirty at version %d, run `migrate force %d` after fixing it", dirty.Version, dirty.Version-1)
		}
		return err
	}
	log.Println("Migration successful")
	return nil
}

func down(cctx *cli.Context) error {
	m, err := open(cctx)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	log.Println("Rolled back one migration")
	return nil
}

func force(cctx *cli.Context) error {
	v := cctx.Args().First()
	if v == "" {
		return errors.New("version is required")
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", v, err)
	}

	m, err := open(cctx)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Force(n)
}

func version(cctx *cli.Context) error {
	m, err := open(cctx)
	if err != nil {
		return err
	}
	defer m.Close()

	v, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	log.Printf("version=%d dirty=%v", v, dirty)
	return nil
}
