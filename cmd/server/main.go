package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/natfilters/natpricing/internal/config"
	"github.com/natfilters/natpricing/internal/db"
	"github.com/natfilters/natpricing/internal/migrations"
	"github.com/natfilters/natpricing/internal/quotes"
	"github.com/natfilters/natpricing/internal/refdata"
	"github.com/natfilters/natpricing/internal/seed"
)

type server struct {
	tables *refdata.Bundle
	quotes *quotes.Store
}

func (s *server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/calc/pleats", s.handleCalcPleats)
		r.Post("/calc/panels", s.handleCalcPanels)
		r.Post("/calc/pads", s.handleCalcPads)
		r.Post("/calc/sleeves", s.handleCalcSleeves)

		r.Get("/quotes", s.handleQuotesList)
		r.Post("/quotes", s.handleQuotesAdd)
		r.Delete("/quotes", s.handleQuotesClear)
		r.Delete("/quotes/{id}", s.handleQuotesRemove)
		r.Get("/quotes/export", s.handleQuotesExport)
	})

	return r
}

func main() {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, "migrations"); err != nil {
			log.Fatalf("failed to run database migrations: %v", err)
		}
		stats, err := seed.Run(database, cfg.DataDir)
		if err != nil {
			log.Fatalf("failed to seed reference data: %v", err)
		}
		log.Printf("seeded %d reference tables (%d rows)", stats.Tables, stats.Rows)
	}

	tables, err := refdata.Load(database)
	if err != nil {
		log.Fatalf("failed to load reference tables: %v", err)
	}

	srv := &server{tables: tables, quotes: quotes.NewStore()}
	r := srv.routes()

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
