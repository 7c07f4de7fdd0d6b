package db

import (
	"fmt"
	"strings"

	"journal/internal/auth"
	"journal/internal/impulse"
	"journal/internal/jobs"
	"journal/internal/report"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

const sqlitePrefix = "sqlite://"

// Connect opens postgres for a regular DSN and sqlite for "sqlite://<path>".
func Connect(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	if path, ok := strings.CutPrefix(dsn, sqlitePrefix); ok {
		return gorm.Open(sqlite.Dialector{DriverName: "sqlite", DSN: path}, cfg)
	}
	return gorm.Open(postgres.New(postgres.Config{DriverName: "postgres", DSN: dsn}), cfg)
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&impulse.Log{},
		&report.Report{},
		&jobs.Job{},
		&auth.User{},
	); err != nil {
		return err
	}

	stmts := []string{
		`create index if not exists idx_reports_created on weekly_reports(created_at desc, id desc);`,
		`create index if not exists idx_jobs_due on jobs(status, run_at);`,
		`create index if not exists idx_jobs_lock on jobs(status, locked_at);`,
	}
	if gdb.Dialector.Name() == "postgres" {
		stmts = append(stmts,
			`create index if not exists idx_impulse_logs_datetime_desc on impulse_logs(datetime desc, id desc);`,
			// the acted column only ever holds yes/no
			`do $$ begin
  alter table impulse_logs add constraint chk_impulse_logs_acted check (acted in ('yes','no'));
exception when duplicate_object then null;
end $$;`,
		)
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
