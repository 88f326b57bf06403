package main

import (
	"net/http"

	"github.com/AdamBeresnev/doubles-ladder/internal/httputil"
	"github.com/AdamBeresnev/doubles-ladder/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type scoreRequest struct {
	ScoreA *int `json:"scoreA"`
	ScoreB *int `json:"scoreB"`
}

func newRouter(tournaments *service.TournamentService) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Post("/tournaments", func(w http.ResponseWriter, r *http.Request) {
		var input service.CreateTournamentInput
		if err := httputil.DecodeJSON(r, &input); err != nil {
			httputil.BadRequest(w, "Invalid tournament", err)
			return
		}
		tournament, err := tournaments.CreateTournament(r.Context(), input)
		if err != nil {
			httputil.Error(w, "Failed to create tournament", err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, tournament)
	})

	r.Route("/tournaments/{ref}", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			data, err := tournaments.GetTournamentData(r.Context(), chi.URLParam(r, "ref"))
			if err != nil {
				httputil.Error(w, "Tournament", err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, data)
		})

		r.Get("/standings", func(w http.ResponseWriter, r *http.Request) {
			players, err := tournaments.Standings(r.Context(), chi.URLParam(r, "ref"))
			if err != nil {
				httputil.Error(w, "Tournament", err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, players)
		})

		r.Post("/rounds/next", func(w http.ResponseWriter, r *http.Request) {
			round, err := tournaments.NextRound(r.Context(), chi.URLParam(r, "ref"))
			if err != nil {
				httputil.Error(w, "Tournament", err)
				return
			}
			httputil.WriteJSON(w, http.StatusCreated, round)
		})

		r.Post("/rounds/close", func(w http.ResponseWriter, r *http.Request) {
			res, err := tournaments.CloseRound(r.Context(), chi.URLParam(r, "ref"))
			if err != nil {
				httputil.Error(w, "Tournament", err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, res)
		})

		r.Post("/waves", func(w http.ResponseWriter, r *http.Request) {
			res, err := tournaments.GenerateWave(r.Context(), chi.URLParam(r, "ref"))
			if err != nil {
				httputil.Error(w, "Tournament", err)
				return
			}
			httputil.WriteJSON(w, http.StatusCreated, res)
		})
	})

	r.Post("/matches/{id}/score", func(w http.ResponseWriter, r *http.Request) {
		matchID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid match ID", err)
			return
		}
		var req scoreRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.BadRequest(w, "Invalid score", err)
			return
		}
		if req.ScoreA == nil || req.ScoreB == nil {
			httputil.BadRequest(w, "scoreA and scoreB are required", nil)
			return
		}
		res, err := tournaments.RecordScore(r.Context(), matchID, *req.ScoreA, *req.ScoreB)
		if err != nil {
			httputil.Error(w, "Match", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, res)
	})

	return r
}
