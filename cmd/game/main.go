package main

import (
	"context"
	"flag"
	"os"

	"github.com/Garsondee/tank-arena/internal/audio"
	"github.com/Garsondee/tank-arena/internal/config"
	"github.com/Garsondee/tank-arena/internal/game"
	"github.com/Garsondee/tank-arena/internal/logging"
	"github.com/Garsondee/tank-arena/internal/score"
	"github.com/Garsondee/tank-arena/internal/window"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	configDir := flag.String("config", ".", "directory containing "+config.FileName)
	flag.Parse()

	log := logging.New("info", os.Stderr)
	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	log = logging.New(cfg.LogLevel, os.Stderr)

	ctx := context.Background()
	keeper, closeStore := score.OpenKeeper(ctx, cfg.Score.Driver, cfg.Score.Path, cfg.Score.DSN, log)
	defer closeStore()

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

	g := window.New(sim, window.Options{
		TickRate: cfg.TickRate,
		Width:    cfg.Window.Width,
		Height:   cfg.Window.Height,
		Recorder: keeper,
		Log:      log,
	})

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TickRate)
	ebiten.SetCursorMode(ebiten.CursorModeHidden)
	if err := ebiten.RunGame(g); err != nil {
		log.Error().Err(err).Msg("Game exited with error")
		os.Exit(1)
	}
}
