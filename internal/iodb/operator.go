// Package iodb implements database operations using pgxpool.
// This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"context"
	"fmt"
	"sync"

	"github.com/gnames/gnanimal/pkg/config"
	"github.com/gnames/gnanimal/pkg/db"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// pgxOperator implements db.Operator interface using
// pgxpool for connection pooling. It is safe for concurrent use.
type pgxOperator struct {
	mu     sync.RWMutex
	pool   *pgxpool.Pool
	gormDB *gorm.DB
}

// NewPgxOperator creates a new database operator
// (without connecting).
func NewPgxOperator() db.Operator {
	return &pgxOperator{}
}

// NewFromGORM creates an operator around an existing GORM
// handle. Such operator has no pool, Connect is not needed.
func NewFromGORM(gormDB *gorm.DB) db.Operator {
	return &pgxOperator{gormDB: gormDB}
}

// Connect establishes a connection pool to PostgreSQL.
// Uses sensible hardcoded pool settings that work well for
// most use cases.
func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 0
	poolConfig.MaxConnIdleTime = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: stdlib.OpenDBFromPool(pool)}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		pool.Close()
		return GORMConnectionError(err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool != nil {
		p.pool.Close()
	}
	p.pool = pool
	p.gormDB = gormDB
	return nil
}

// Close releases all database connections.
func (p *pgxOperator) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	p.gormDB = nil
	return nil
}

// Pool returns the underlying pgxpool.Pool for advanced
// operations.
func (p *pgxOperator) Pool() *pgxpool.Pool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pool
}

// GORM returns the GORM handle created by Connect.
func (p *pgxOperator) GORM() (*gorm.DB, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.gormDB == nil {
		return nil, NotConnectedError()
	}
	return p.gormDB, nil
}

// SchemaExists checks if a database schema exists.
func (p *pgxOperator) SchemaExists(
	ctx context.Context,
	dbSchema string,
) (bool, error) {
	gormDB, err := p.GORM()
	if err != nil {
		return false, err
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.schemata
			WHERE schema_name = ?
		)
	`

	var exists bool
	err = gormDB.WithContext(ctx).Raw(query, dbSchema).Scan(&exists).Error
	if err != nil {
		return false, SchemaExistsCheckError(dbSchema, err)
	}
	return exists, nil
}

// TableExists checks if a table exists in a database schema.
func (p *pgxOperator) TableExists(
	ctx context.Context,
	dbSchema, table string,
) (bool, error) {
	gormDB, err := p.GORM()
	if err != nil {
		return false, err
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = ?
			AND table_name = ?
		)
	`

	var exists bool
	err = gormDB.WithContext(ctx).Raw(query, dbSchema, table).Scan(&exists).Error
	if err != nil {
		return false, TableExistsCheckError(dbSchema+"."+table, err)
	}
	return exists, nil
}
