package database

import (
	"context"

	"github.com/rpupo63/game-catalog-backend/errs"
	"gorm.io/gorm"
)

type Database struct {
	db    *gorm.DB
	query *Query
}

// New wraps a GORM connection; every record access goes through the shared Query
func New(db *gorm.DB) Database {
	return Database{
		db:    db,
		query: NewQuery(db),
	}
}

func (d Database) Query() *Query {
	return d.query
}

// Migrate creates the tables and seeds the platforms the catalog knows about
func (d Database) Migrate() error {
	return Migrate(d.db)
}

// Ping verifies the database answers, mapping failures like any other query
func (d Database) Ping(ctx context.Context) error {
	var result int
	if err := d.db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error; err != nil {
		return errs.NewDatabaseError("ping", "database", err)
	}
	return nil
}

func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
