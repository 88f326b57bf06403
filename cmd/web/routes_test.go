package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AdamBeresnev/doubles-ladder/internal/bracket"
	"github.com/AdamBeresnev/doubles-ladder/internal/db"
	"github.com/AdamBeresnev/doubles-ladder/internal/schedule"
	"github.com/AdamBeresnev/doubles-ladder/internal/service"
	"github.com/AdamBeresnev/doubles-ladder/internal/store"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	svc := service.NewTournamentService(database, store.NewTournamentStore(database),
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	srv := httptest.NewServer(newRouter(svc))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestTournamentAPI(t *testing.T) {
	srv := newTestServer(t)

	names := make([]string, 8)
	for i := range names {
		names[i] = fmt.Sprintf(`{"name":"P%d"}`, i+1)
	}
	var tournament bracket.Tournament
	code := do(t, http.MethodPost, srv.URL+"/tournaments",
		`{"name":"Club Night","players":[`+strings.Join(names, ",")+`]}`, &tournament)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "club-night", tournament.Slug)

	base := srv.URL + "/tournaments/" + tournament.Slug

	var round bracket.Round
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, base+"/rounds/next", "", &round))
	assert.Equal(t, 1, round.Index)

	var wave schedule.WaveResult
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, base+"/waves", "", &wave))
	require.Len(t, wave.Matches, 2)

	var scored service.ScoreResult
	code = do(t, http.MethodPost, srv.URL+"/matches/"+wave.Matches[0].ID.String()+"/score", `{"scoreA":21,"scoreB":18}`, &scored)
	require.Equal(t, http.StatusOK, code)
	assert.Greater(t, scored.Rating.A, 0.0)
	assert.NotEmpty(t, scored.Rating.Reason)

	assert.Equal(t, http.StatusBadRequest,
		do(t, http.MethodPost, srv.URL+"/matches/"+wave.Matches[0].ID.String()+"/score", `{"scoreA":21,"scoreB":18}`, nil))
	assert.Equal(t, http.StatusBadRequest,
		do(t, http.MethodPost, srv.URL+"/matches/"+wave.Matches[1].ID.String()+"/score", `{"scoreA":21}`, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPost, base+"/waves", "", nil))
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPost, base+"/rounds/close", "", nil))

	var standings []bracket.Player
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, base+"/standings", "", &standings))
	assert.Len(t, standings, 8)

	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, srv.URL+"/tournaments/unknown", "", nil))
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPost, srv.URL+"/matches/not-a-uuid/score", `{}`, nil))
}
