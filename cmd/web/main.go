package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/AdamBeresnev/doubles-ladder/internal/config"
	"github.com/AdamBeresnev/doubles-ladder/internal/db"
	"github.com/AdamBeresnev/doubles-ladder/internal/service"
	"github.com/AdamBeresnev/doubles-ladder/internal/store"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	database := db.InitDB(cfg.DBPath)
	defer database.Close()

	if err := db.RunMigrations(database.DB); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	tournaments := service.NewTournamentService(database, store.NewTournamentStore(database))
	router := newRouter(tournaments)

	log.Printf("Server starting on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, router); err != nil {
		log.Fatal(err)
	}
}
