package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/Garsondee/tank-arena/internal/audio"
	"github.com/Garsondee/tank-arena/internal/config"
	"github.com/Garsondee/tank-arena/internal/game"
	"github.com/Garsondee/tank-arena/internal/logging"
	"github.com/Garsondee/tank-arena/internal/score"
	"github.com/Garsondee/tank-arena/internal/terminal"
	"github.com/gdamore/tcell/v2"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "arena-tui: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configDir := flag.String("config", ".", "directory containing "+config.FileName)
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		return err
	}

	// The screen owns stdout and stderr, so logs go to a file.
	logFile, err := logging.OpenFile(cfg.LogsDir, "arena-tui", time.Now())
	if err != nil {
		return err
	}
	defer logFile.Close()
	log := logging.New(cfg.LogLevel, logFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	keeper, closeStore := score.OpenKeeper(ctx, cfg.Score.Driver, cfg.Score.Path, cfg.Score.DSN, log)
	defer closeStore()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	opts := append(cfg.SimOptions(),
		game.WithLogger(log),
		game.WithScore(keeper),
	)
	if cfg.Audio.Enabled {
		player := audio.NewPlayer(cfg.Audio.Volume, log)
		if err := player.Initialize(); err != nil {
			log.Warn().Err(err).Msg("Audio initialization failed, continuing without sound")
		} else {
			defer player.Close()
			opts = append(opts, game.WithAssets(player))
		}
	}
	sim := game.NewSimulation(opts...)
	host := terminal.New(screen, sim, terminal.Options{
		TickRate: cfg.TickRate,
		Recorder: keeper,
		Log:      log,
	})

	log.Info().Msg("Terminal arena started")
	if err := host.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Int("highscore", keeper.Highscore()).Msg("Terminal arena stopped")
	return nil
}
