package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/rpupo63/game-catalog-backend/database"
	"github.com/rpupo63/game-catalog-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) (*gorm.DB, *database.Query) {
	t.Helper()
	db, err := database.Open(database.Config{Type: "sqlite", DSN: ":memory:", LogLevel: logger.Silent})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db, database.NewQuery(db)
}

func seedCategory(t *testing.T, q *database.Query, name string) uint {
	t.Helper()
	res, err := q.Execute(context.Background(), database.KindCategory, database.OpInsert,
		database.WithData(database.Fields{"Name": name}))
	if err != nil {
		t.Fatalf("seed category %s: %v", name, err)
	}
	c, _ := database.First[*models.Category](res)
	return c.ID
}

func count(t *testing.T, db *gorm.DB, model any, where ...any) int64 {
	t.Helper()
	var n int64
	tx := db.Model(model)
	if len(where) > 0 {
		tx = tx.Where(where[0], where[1:]...)
	}
	if err := tx.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

// memImages keeps uploaded images in memory.
type memImages struct {
	mu      sync.Mutex
	next    int
	saved   map[string]string
	removed []string
}

func newMemImages() *memImages {
	return &memImages{saved: map[string]string{}}
}

func (m *memImages) Save(_ context.Context, filename string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	ref := fmt.Sprintf("%d-%s", m.next, filename)
	m.saved[ref] = string(b)
	return ref, nil
}

func (m *memImages) Remove(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saved, ref)
	m.removed = append(m.removed, ref)
	return nil
}
