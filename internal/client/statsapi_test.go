package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zackcline/fantasy-baseball-tracker/internal/models"
	"github.com/zackcline/fantasy-baseball-tracker/internal/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

const scheduleJSON = `{
	"totalGames": 2,
	"dates": [{
		"date": "2025-04-01",
		"games": [
			{
				"gamePk": 778001, "gameType": "R", "officialDate": "2025-04-01",
				"status": {"abstractGameCode": "F", "abstractGameState": "Final", "detailedState": "Final"},
				"teams": {
					"away": {"team": {"id": 147, "name": "New York Yankees"}, "score": 4},
					"home": {"team": {"id": 110, "name": "Baltimore Orioles"}, "score": 2}
				}
			},
			{
				"gamePk": 778002, "gameType": "R", "officialDate": "2025-04-01",
				"status": {"abstractGameCode": "P", "abstractGameState": "Preview", "detailedState": "Scheduled"},
				"teams": {
					"away": {"team": {"id": 121, "name": "New York Mets"}},
					"home": {"team": {"id": 146, "name": "Miami Marlins"}}
				}
			}
		]
	}]
}`

const standingsJSON = `{
	"records": [
		{"standingsType": "regularSeason", "division": {"id": 201}, "teamRecords": [
			{"team": {"id": 147, "name": "New York Yankees"}, "wins": 4, "losses": 1},
			{"team": {"id": 110, "name": "Baltimore Orioles"}, "wins": 2, "losses": 3}
		]},
		{"standingsType": "regularSeason", "division": {"id": 204}, "teamRecords": [
			{"team": {"id": 121, "name": "New York Mets"}, "wins": 3, "losses": 2}
		]}
	]
}`

func newTestClient(url string) *Client {
	return NewClient(Config{
		BaseURL:   url,
		Timeout:   5 * time.Second,
		RateLimit: 100,
		Burst:     10,
		Retry:     retry.Policy{Attempts: 3, Delay: time.Millisecond},
		LeagueIDs: []int{103, 104},
		Season:    2025,
	})
}

func serve(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newTestClient(srv.URL)
}

func TestFetchSchedule(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schedule", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("sportId"))
		assert.Equal(t, "2025-04-01", r.URL.Query().Get("date"))
		_, _ = w.Write([]byte(scheduleJSON))
	})

	games, err := c.FetchSchedule(context.Background(), testDate)
	require.NoError(t, err)
	require.Len(t, games, 2)

	assert.Equal(t, 778001, games[0].GameID)
	assert.True(t, games[0].IsFinal())
	winner, _, ok := games[0].Winner()
	require.True(t, ok)
	assert.Equal(t, "New York Yankees", winner)

	assert.False(t, games[1].IsFinal())
	assert.False(t, games[1].HasScore())
}

func TestFetchSchedule_EmptyDay(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalGames": 0, "dates": []}`))
	})

	games, err := c.FetchSchedule(context.Background(), testDate)
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestFetchSchedule_Malformed(t *testing.T) {
	tests := map[string]string{
		"not json":        `<html>`,
		"missing dates":   `{"totalGames": 0}`,
		"game sans teams": `{"dates": [{"games": [{"gamePk": 1, "status": {"abstractGameCode": "F"}}]}]}`,
	}

	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			c := serve(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(payload))
			})

			_, err := c.FetchSchedule(context.Background(), testDate)
			assert.ErrorIs(t, err, models.ErrMalformedResponse)
		})
	}
}

func TestFetchStandings(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/standings", r.URL.Path)
		assert.Equal(t, "103,104", r.URL.Query().Get("leagueId"))
		assert.Equal(t, "2025", r.URL.Query().Get("season"))
		assert.Equal(t, "2025-04-01", r.URL.Query().Get("date"))
		_, _ = w.Write([]byte(standingsJSON))
	})

	records, err := c.FetchStandings(context.Background(), testDate)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, models.ExternalTeamRecord{TeamName: "New York Mets", Wins: 3, Losses: 2}, records[2])
}

func TestFetchStandings_Empty(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"records": []}`))
	})

	_, err := c.FetchStandings(context.Background(), testDate)
	assert.ErrorIs(t, err, models.ErrNoRecords)
}

func TestFetchStandings_Malformed(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"records": [{"teamRecords": [{"team": {"name": "New York Mets"}, "wins": 3}]}]}`))
	})

	_, err := c.FetchStandings(context.Background(), testDate)
	assert.ErrorIs(t, err, models.ErrMalformedResponse)
}

func TestGet_RetriesTransientStatus(t *testing.T) {
	var calls int32
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(standingsJSON))
	})

	records, err := c.FetchStandings(context.Background(), testDate)
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGet_ExhaustedRetriesAreTransient(t *testing.T) {
	var calls int32
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.FetchSchedule(context.Background(), testDate)
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGet_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.FetchSchedule(context.Background(), testDate)
	require.Error(t, err)
	assert.False(t, IsTransient(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
