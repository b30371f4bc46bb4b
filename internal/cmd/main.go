package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/elecperu/cabina/clients"
	"github.com/elecperu/cabina/internal/session"
	"github.com/elecperu/cabina/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	configPath := flag.String("config", "", "path to kiosk config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	store, err := storage.OpenSQLiteStore(cfg.Storage.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open session store")
	}
	defer store.Close()

	gateway := clients.NewVotingAPIClient(cfg.Backend.BaseURL)
	gateway.SetTimeout(cfg.backendTimeout())

	log.Info().
		Str("backend", cfg.Backend.BaseURL).
		Str("store", cfg.Storage.Path).
		Int("window_sec", cfg.Session.WindowSec).
		Msg("starting voting kiosk")

	kiosk := newKiosk(gateway, store, clockwork.NewRealClock(), session.Config{
		Window: cfg.window(),
		Grace:  cfg.grace(),
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		kiosk.Close()
		os.Exit(0)
	}()

	kiosk.Run()
}
