package score

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrUnknownDriver is returned for a driver other than sqlite or postgres.
var ErrUnknownDriver = errors.New("unknown score driver")

// Highscore is one finished session.
type Highscore struct {
	ID          uint `gorm:"primaryKey"`
	Score       int  `gorm:"index"`
	Level       int
	Kills       int
	Shots       int
	Hits        int
	SurvivedSec float64
	CreatedAt   time.Time
}

// Store persists finished sessions.
type Store struct {
	DB     *gorm.DB
	Logger zerolog.Logger
}

// Open connects to the configured database and migrates the schema.
// driver is "sqlite" (path is the database file) or "postgres" (dsn).
func Open(driver, path, dsn string, log zerolog.Logger) (*Store, error) {
	var (
		db  *gorm.DB
		err error
	)
	cfg := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}

	switch driver {
	case "sqlite":
		memory := path == ""
		if memory {
			path = "file::memory:"
		}
		db, err = gorm.Open(sqlite.Open(path), cfg)
		if err == nil && memory {
			// Every connection to :memory: is a separate database.
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				sqlDB.SetMaxOpenConns(1)
			}
		}
		if err == nil {
			log.Info().Str("path", path).Msg("Using local SQLite score store")
		}
	case "postgres":
		log.Debug().Msg("Connecting to Postgres score store")
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), cfg)
	default:
		return nil, fmt.Errorf("%q: %w", driver, ErrUnknownDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s score store: %w", driver, err)
	}

	if err := migrate(db); err != nil {
		return nil, err
	}
	return &Store{DB: db, Logger: log}, nil
}

// migrate creates the highscores table. On failure the pool is closed,
// since no Store will own it.
func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&Highscore{})
	if err == nil {
		return nil
	}
	if sqlDB, dbErr := db.DB(); dbErr == nil {
		_ = sqlDB.Close()
	}
	return fmt.Errorf("failed to migrate highscores table: %w", err)
}

// Best returns the highest recorded score, 0 when none.
func (s *Store) Best(ctx context.Context) (int, error) {
	var best int
	row := s.DB.WithContext(ctx).Model(&Highscore{}).Select("COALESCE(MAX(score), 0)").Row()
	if err := row.Scan(&best); err != nil {
		return 0, fmt.Errorf("query best score: %w", err)
	}
	return best, nil
}

// Record stores a finished session.
func (s *Store) Record(ctx context.Context, h *Highscore) error {
	if err := s.DB.WithContext(ctx).Create(h).Error; err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	return nil
}

// Top returns up to n sessions, best first.
func (s *Store) Top(ctx context.Context, n int) ([]Highscore, error) {
	var out []Highscore
	err := s.DB.WithContext(ctx).Order("score DESC").Order("created_at ASC").Limit(n).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	return out, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}
