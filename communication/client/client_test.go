package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"lineup/communication"
	"lineup/communication/server"
	"lineup/engine"
	"lineup/game"
	"lineup/rng"
	"lineup/searcher"
	"lineup/store"
)

var average = game.EventRates{Single: 0.15, Double: 0.05, Triple: 0.005, HomeRun: 0.03, WalkOrHBP: 0.09, Strikeout: 0.2, OtherOut: 0.475}

func newClient(t *testing.T) *Client {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	srv := httptest.NewServer(server.New(communication.NewLocal(nil), s))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", nil)
}

func TestClientMatchesLocal(t *testing.T) {
	c := newClient(t)
	local := communication.NewLocal(nil)
	ctx := context.Background()
	uniform := game.Uniform(average)

	t.Run("simulate", func(t *testing.T) {
		req := communication.SimulateRequest{Batters: communication.Batters{Lineup: uniform[:]}, Trials: 300, Seed: rng.SeedValue(1)}
		remote, err := c.Simulate(ctx, req)
		require.NoError(t, err)
		want, err := local.Simulate(ctx, req)
		require.NoError(t, err)
		require.Equal(t, want, remote)
	})

	t.Run("search", func(t *testing.T) {
		topK := 2
		req := communication.SearchRequest{
			Batters: communication.Batters{Lineup: uniform[:]},
			Request: searcher.Request{Candidates: 5, GamesPerCandidate: 10, Seed: rng.SeedValue(2), TopK: &topK},
		}
		remote, err := c.Search(ctx, req)
		require.NoError(t, err)
		want, err := local.Search(ctx, req)
		require.NoError(t, err)
		require.Equal(t, want, remote)
		require.Len(t, remote.ByMean, 2)
	})

	t.Run("history", func(t *testing.T) {
		runs, err := c.Runs(ctx, 10)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		require.Equal(t, store.KindSearch, runs[0].Kind)

		run, err := c.Run(ctx, runs[1].ID)
		require.NoError(t, err)
		require.Equal(t, store.KindSimulate, run.Kind)
	})

	t.Run("health", func(t *testing.T) {
		require.NoError(t, c.Healthy(ctx))
	})
}

func TestClientErrors(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()
	uniform := game.Uniform(average)

	t.Run("bad request carries the server message", func(t *testing.T) {
		_, err := c.Simulate(ctx, communication.SimulateRequest{Batters: communication.Batters{Lineup: uniform[:]}, Trials: -1})
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		require.Equal(t, http.StatusBadRequest, statusErr.Code)
		require.Contains(t, statusErr.Message, engine.ErrInvalidTrials.Error())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := c.Run(ctx, 12345)
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		require.Equal(t, http.StatusNotFound, statusErr.Code)
	})

	t.Run("non-JSON error body falls back to status text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		err := New(srv.URL, nil).Healthy(ctx)
		require.EqualError(t, err, "server returned 502: Bad Gateway")
	})

	t.Run("unreachable server", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := New(url, nil).Simulate(ctx, communication.SimulateRequest{Batters: communication.Batters{Lineup: uniform[:]}, Trials: 1})
		require.Error(t, err)
	})
}
