package main

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"kniffel/internal/bot"
	"kniffel/internal/server"
	"kniffel/internal/session"
	"kniffel/internal/storage"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Console writer for development (colored output)
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	addr := ":8080"
	if p := os.Getenv("PORT"); p != "" {
		addr = ":" + p
	}

	dbPath := "kniffel.db"
	if p := os.Getenv("DB_PATH"); p != "" {
		dbPath = p
	}

	// Default timeout policy for timed non-tournament sessions.
	timeoutEliminates := os.Getenv("TIMEOUT_ELIMINATES") != "false"

	store, err := storage.New(dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer store.Close()

	mgr := session.NewManager(store, session.Options{
		Logger:     log.Logger,
		Autoplayer: bot.Greedy{},
	})
	if err := mgr.Restore(); err != nil {
		log.Warn().Err(err).Msg("restore sessions")
	}

	// Cleanup stale sessions every minute, remove after 24 hours
	go mgr.CleanupLoop(1*time.Minute, 24*time.Hour)

	srv := server.New(mgr, server.Config{EliminateOnTimeout: timeoutEliminates}, log.Logger)

	log.Info().
		Str("addr", addr).
		Str("db_path", dbPath).
		Str("log_level", level.String()).
		Msg("starting kniffel server")

	if err := http.ListenAndServe(addr, srv); err != nil {
		log.Fatal().Err(err).Msg("server")
	}
}
