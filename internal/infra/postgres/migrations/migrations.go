package migrations

import (
	"context"
	"embed"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

var Migrations = migrate.NewMigrations()

// execFile returns a migration step that runs one embedded SQL script.
func execFile(name string) migrate.MigrationFunc {
	return func(ctx context.Context, db *bun.DB) error {
		script, err := sqlFiles.ReadFile("sql/" + name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		_, err = db.ExecContext(ctx, string(script))
		return err
	}
}
