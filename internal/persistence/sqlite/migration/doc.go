// Package migration applies versioned SQL files to a SQLite database.
//
// Migration files are read from an fs.FS (usually an embed.FS compiled into the
// binary) and follow the naming convention {version}_{description}.sql, for
// example "001_initial_schema.sql". Applied versions are tracked in the
// schema_migrations table so every file runs once per database.
//
// Example usage:
//
//	manager := NewManager(db, migrationFiles, "migrations", logger)
//	if _, err := manager.Run(ctx); err != nil {
//		return err
//	}
package migration
