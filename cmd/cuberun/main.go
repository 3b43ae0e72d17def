package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/plus3/cuberun/ecs/debugui"
	debugui_ebiten "github.com/plus3/cuberun/ecs/debugui/ebiten"
	"github.com/plus3/cuberun/internal/logging"
	"github.com/plus3/cuberun/runner"
	"github.com/plus3/cuberun/scene"
	"github.com/plus3/cuberun/sound"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
)

func main() {
	configPath := flag.String("config", "", "Optional YAML tuning file.")
	seed := flag.Uint64("seed", 0, "Spawn seed (0 picks one from the clock).")
	debug := flag.Bool("debug", false, "Show the ImGui debug overlay.")
	logLevel := flag.String("log-level", "info", "zerolog level (trace, debug, info, warn, error).")
	mute := flag.Bool("mute", false, "Disable the game over jingle.")
	flag.Parse()

	log, _, err := logging.New(os.Stderr, *logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg := runner.DefaultConfig()
	if *configPath != "" {
		if cfg, err = runner.LoadConfig(*configPath); err != nil {
			log.Fatal().Err(err).Msg("load config")
		}
	}

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	game := &Game{log: log}

	if !*mute {
		if game.sound, err = sound.NewPlayer(audio.NewContext(sound.SampleRate)); err != nil {
			log.Fatal().Err(err).Msg("init audio")
		}
	}

	game.host, err = scene.NewHost(cfg, ScreenWidth, ScreenHeight, *seed)
	if err != nil {
		log.Fatal().Err(err).Msg("init scene")
	}

	game.world, err = runner.NewWorld(cfg, runner.Options{
		Scene:    game.host,
		Notifier: game,
		Logger:   &log,
		Seed:     *seed,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init world")
	}
	game.loop = runner.NewLoop(game.world)

	if *debug {
		game.overlay = debugui_ebiten.NewOverlay("cuberun", ScreenWidth, ScreenHeight, debugui.Target{
			Storage:   game.world.Storage,
			Scheduler: game.world.Scheduler,
		})
		game.overlay.Add(runnerPanel(game.world))
	}

	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle("cuberun")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(runner.TickRate)

	log.Info().Uint64("seed", *seed).Str("collision", string(cfg.Collision.Mode)).Msg("starting game")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal().Err(err).Msg("game loop failed")
	}
}
