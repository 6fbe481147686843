// Package postgrestest starts a disposable Postgres for integration tests.
package postgrestest

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const image = "postgres:16-alpine"

// Container is a running Postgres and an open gorm handle to it
type Container struct {
	container *tcpostgres.PostgresContainer
	DB        *gorm.DB
	DSN       string
}

// Start runs a fresh Postgres container and connects gorm to it
func Start(ctx context.Context) (*Container, error) {
	ctr, err := tcpostgres.Run(ctx, image,
		tcpostgres.WithDatabase("mobilestore_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(ctr)
		return nil, fmt.Errorf("postgres connection string: %w", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = testcontainers.TerminateContainer(ctr)
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	return &Container{container: ctr, DB: db, DSN: dsn}, nil
}

// Open returns a second gorm handle on the same database. Callbacks
// registered on it do not affect DB.
func (c *Container) Open() (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(c.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return db, nil
}

// BeforeCreate runs fn before every INSERT into table made through db
func BeforeCreate(db *gorm.DB, table string, fn func()) error {
	return db.Callback().Create().Before("gorm:create").Register("postgrestest:before_create_"+table, func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == table {
			fn()
		}
	})
}

// FailQueries makes every SELECT from table made through db fail with err
func FailQueries(db *gorm.DB, table string, err error) error {
	return db.Callback().Query().Before("gorm:query").Register("postgrestest:fail_query_"+table, func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == table {
			_ = tx.AddError(err)
		}
	})
}

// Truncate empties the given tables and resets their identities
func (c *Container) Truncate(tables ...string) error {
	for _, table := range tables {
		if err := c.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// Stop closes the pool and terminates the container
func (c *Container) Stop() error {
	if sqlDB, err := c.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return testcontainers.TerminateContainer(c.container)
}
