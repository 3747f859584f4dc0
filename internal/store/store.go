// Package store persists classified articles in SQLite with
// insert-or-ignore deduplication on (title, source).
package store

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/newsense-in/newsense/pkg/models"
)

// FilterAll is the sentinel value that disables a region or category
// filter in Query.
const FilterAll = "all"

// Store is the durable article store.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the SQLite database at path and runs
// migrations. WAL mode keeps the scheduled sweep and HTTP readers from
// blocking each other.
func Open(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(30000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if err := db.AutoMigrate(&models.Article{}); err != nil {
		return nil, fmt.Errorf("migrate articles: %w", err)
	}

	return &Store{db: db}, nil
}

// PutMany inserts articles, skipping any whose (title, source) pair is
// already present. The skip happens inside the database via ON CONFLICT
// DO NOTHING, so overlapping sweeps cannot double-insert. Calling with
// an empty slice is a no-op.
func (s *Store) PutMany(ctx context.Context, articles []models.Article) (inserted, skipped int, err error) {
	for i := range articles {
		res := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&articles[i])
		if res.Error != nil {
			return inserted, skipped, fmt.Errorf("insert %q: %w", articles[i].Title, res.Error)
		}
		if res.RowsAffected > 0 {
			inserted++
		} else {
			skipped++
		}
	}
	return inserted, skipped, nil
}

// Query returns the most recent articles, newest first by timestamp with
// ties broken by insertion order (newest insert first). Region and
// category filter on exact match; empty or "all" disables a filter.
// A limit below 1 is clamped to 1.
func (s *Store) Query(ctx context.Context, limit int, region, category string) ([]models.Article, error) {
	if limit < 1 {
		limit = 1
	}

	q := s.db.WithContext(ctx).Model(&models.Article{})
	if region != "" && region != FilterAll {
		q = q.Where("region = ?", region)
	}
	if category != "" && category != FilterAll {
		q = q.Where("category = ?", category)
	}

	var articles []models.Article
	err := q.Order("timestamp DESC").Order("id DESC").Limit(limit).Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	return articles, nil
}

// Count returns the total number of stored articles.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Article{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
