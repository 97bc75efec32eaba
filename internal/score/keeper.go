package score

import (
	"context"
	"time"

	"github.com/Garsondee/tank-arena/internal/game"
	"github.com/rs/zerolog"
)

// Keeper is a game.ScoreKeeper whose high score survives restarts of the
// program. Without a store it behaves like an in-memory keeper.
type Keeper struct {
	store *Store
	log   zerolog.Logger

	score     int
	highscore int
	newHigh   bool
}

var _ game.ScoreKeeper = (*Keeper)(nil)

// NewKeeper loads the best recorded score. A nil store is allowed.
func NewKeeper(ctx context.Context, store *Store, log zerolog.Logger) (*Keeper, error) {
	k := &Keeper{store: store, log: log}
	if store == nil {
		return k, nil
	}
	best, err := store.Best(ctx)
	if err != nil {
		return nil, err
	}
	k.highscore = best
	return k, nil
}

func (k *Keeper) IncreaseScore(points int) {
	k.score += points
	if k.score > k.highscore {
		k.highscore = k.score
		k.newHigh = true
	}
}

func (k *Keeper) Score() int           { return k.score }
func (k *Keeper) Highscore() int       { return k.highscore }
func (k *Keeper) IsNewHighscore() bool { return k.newHigh }

// Reset starts a new session score; the high score is kept.
func (k *Keeper) Reset() {
	k.score = 0
	k.newHigh = false
}

// Commit persists a finished session. Store failures are logged and
// returned; the in-memory high score is already current.
func (k *Keeper) Commit(ctx context.Context, r game.SessionReport) error {
	if k.store == nil {
		return nil
	}
	err := k.store.Record(ctx, &Highscore{
		Score:       r.Score,
		Level:       r.Level,
		Kills:       r.Kills,
		Shots:       r.Shots,
		Hits:        r.Hits,
		SurvivedSec: r.SurvivedSeconds,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		k.log.Error().Err(err).Msg("Failed to save session score")
		return err
	}
	k.log.Info().Int("score", r.Score).Int("level", r.Level).Msg("Session score saved")
	return nil
}

// OpenKeeper opens the configured store and loads the best score. A store
// that cannot be opened or read degrades to an in-memory keeper. The
// returned close func is never nil.
func OpenKeeper(ctx context.Context, driver, path, dsn string, log zerolog.Logger) (*Keeper, func()) {
	store, err := Open(driver, path, dsn, log)
	if err != nil {
		log.Warn().Err(err).Str("driver", driver).Msg("Highscore store unavailable, scores will not be saved")
		k, _ := NewKeeper(ctx, nil, log)
		return k, func() {}
	}
	k, err := NewKeeper(ctx, store, log)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load highscore, scores will not be saved")
		_ = store.Close()
		k, _ = NewKeeper(ctx, nil, log)
		return k, func() {}
	}
	return k, func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close highscore store")
		}
	}
}
