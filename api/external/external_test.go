/* external_test.go
 * Contains unit tests for the roster, match-config and bracket HTTP clients using
 * httptest
 */

package external

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"match-service/api/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetCaptainIDs_Success tests captain resolution for multiple teams
func TestGetCaptainIDs_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/team/get-captains", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload struct {
			TeamIDArray []string `json:"teamIdArray"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, []string{"team-1", "team-2"}, payload.TeamIDArray)

		json.NewEncoder(w).Encode(map[string][]string{"captains": {"cap-1", "cap-2"}})
	}))
	defer server.Close()

	client := NewRosterClient(server.URL)
	captains, err := client.GetCaptainIDs([]string{"team-1", "team-2"})

	require.NoError(t, err)
	assert.Equal(t, []string{"cap-1", "cap-2"}, captains)
}

// TestGetCaptainIDs_ServerError tests handling of upstream failures
func TestGetCaptainIDs_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewRosterClient(server.URL)
	captains, err := client.GetCaptainIDs([]string{"team-1"})

	assert.Nil(t, captains)
	assert.ErrorIs(t, err, shared.ErrUpstream)
}

// TestGetTeamRoster_Success tests roster fetching
func TestGetTeamRoster_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/team/team-1/roster", r.URL.Path)

		json.NewEncoder(w).Encode(TeamRoster{
			Name: "Natus Vincere",
			Tag:  "NAVI",
			Players: []Player{
				{ID: "u-1", Name: "s1mple", SteamID64: "76561198034202275"},
				{ID: "u-2", Name: "electronic", SteamID64: "76561198044045107"},
			},
		})
	}))
	defer server.Close()

	client := NewRosterClient(server.URL)
	roster, err := client.GetTeamRoster("team-1")

	require.NoError(t, err)
	assert.Equal(t, "Natus Vincere", roster.Name)
	assert.Equal(t, "NAVI", roster.Tag)
	require.Len(t, roster.Players, 2)
	assert.Equal(t, "s1mple", roster.Players[0].Name)
}

// TestGetTeamRoster_BadJSON tests handling of an undecodable response
func TestGetTeamRoster_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewRosterClient(server.URL)
	_, err := client.GetTeamRoster("team-1")

	assert.ErrorIs(t, err, shared.ErrUpstream)
}

// TestCreateMatchConfig_Success tests provisioning submission
func TestCreateMatchConfig_Success(t *testing.T) {
	start := time.Date(2024, time.March, 9, 10, 0, 0, 0, time.UTC)
	var received MatchConfigRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/service/config/create", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewMatchConfigClient(server.URL)
	err := client.CreateMatchConfig(MatchConfigRequest{
		MatchID:    "abc123",
		ServerName: "frag-1",
		StartTime:  start,
		EndTime:    start.Add(3 * time.Hour),
		BestOf:     3,
		MapPool:    []string{"de_inferno", "de_mirage"},
		TeamOne:    ConfigTeam{Name: "Natus Vincere", Tag: "NAVI"},
		TeamTwo:    ConfigTeam{Name: "FaZe Clan", Tag: "FaZe"},
	})

	require.NoError(t, err)
	assert.Equal(t, "abc123", received.MatchID)
	assert.Equal(t, "frag-1", received.ServerName)
	assert.True(t, received.EndTime.Equal(start.Add(3*time.Hour)))
}

// TestCreateMatchConfig_Rejected tests handling of a rejected provisioning request
func TestCreateMatchConfig_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := NewMatchConfigClient(server.URL)
	err := client.CreateMatchConfig(MatchConfigRequest{MatchID: "abc123"})

	assert.ErrorIs(t, err, shared.ErrUpstream)
}

// TestCancelMatchConfig_Success tests provisioning withdrawal
func TestCancelMatchConfig_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/service/config/abc123/delete", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewMatchConfigClient(server.URL)
	assert.NoError(t, client.CancelMatchConfig("abc123"))
}

// TestCancelMatchConfig_Unreachable tests transport-level failure
func TestCancelMatchConfig_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewMatchConfigClient(server.URL)
	err := client.CancelMatchConfig("abc123")

	assert.ErrorIs(t, err, shared.ErrUpstream)
}

// TestGetTournamentMatches_Success tests bracket pairing retrieval
func TestGetTournamentMatches_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/service/tourney-1/matches", r.URL.Path)

		json.NewEncoder(w).Encode(map[string][]BracketMatch{"matches": {
			{MatchID: "ch-1", Round: 1, TeamOneCoreID: "team-1", TeamOneName: "NaVi", TeamTwoCoreID: "team-2", TeamTwoName: "FaZe"},
			{MatchID: "ch-2", Round: 1, TeamOneCoreID: "team-3", TeamOneName: "MOUZ", TeamTwoCoreID: "team-4", TeamTwoName: "Spirit"},
		}})
	}))
	defer server.Close()

	client := NewBracketClient(server.URL)
	matches, err := client.GetTournamentMatches("tourney-1")

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "ch-1", matches[0].MatchID)
	assert.Equal(t, "team-3", matches[1].TeamOneCoreID)
}

// TestGetTournamentMatches_Empty tests an unstarted tournament
func TestGetTournamentMatches_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string][]BracketMatch{"matches": {}})
	}))
	defer server.Close()

	client := NewBracketClient(server.URL)
	matches, err := client.GetTournamentMatches("tourney-1")

	assert.Nil(t, matches)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

// TestGetTournamentMatches_ServerError tests upstream failure
func TestGetTournamentMatches_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewBracketClient(server.URL)
	_, err := client.GetTournamentMatches("tourney-1")

	assert.ErrorIs(t, err, shared.ErrUpstream)
}
