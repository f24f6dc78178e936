// Package db connects to PostgreSQL through a pgx pool and applies goose
// migrations from an embedded filesystem.
//
//	pool, err := db.Connect(ctx, cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	err = db.Migrate(ctx, pool, content.Migrations, cfg.Database.MigrationsTable, log)
//
// [WithTx] runs a function in a transaction and rolls back on error or panic.
package db
