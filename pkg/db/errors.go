package db

import "errors"

var (
	ErrFailedToParseDBConfig    = errors.New("db: failed to parse database configuration")
	ErrFailedToOpenDBConnection = errors.New("db: failed to open database connection")
	ErrHealthcheckFailed        = errors.New("db: healthcheck failed")
	ErrSetDialect               = errors.New("db: failed to set migration dialect")
	ErrApplyMigrations          = errors.New("db: failed to apply migrations")
	ErrBeginTx                  = errors.New("db: failed to begin transaction")
	ErrCommitTx                 = errors.New("db: failed to commit transaction")
	ErrRollbackTx               = errors.New("db: failed to roll back transaction")
)
