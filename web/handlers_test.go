/* handlers_test.go
 * Contains unit tests for handlers.go and auth.go, driving the echo instance with
 * httptest requests
 */

package web

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"match-service/api/api"
	"match-service/api/external"
	"match-service/api/shared"
	"match-service/api/store"
	"match-service/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

// newTestServer wires a full server against the in-memory mocks
func newTestServer() (*echo.Echo, *api.MockStore) {
	st := api.NewMockStore()
	roster := &api.MockRoster{
		Captains: map[string][]string{
			"team-1": {"cap-1"},
			"team-2": {"cap-2"},
		},
		Rosters: map[string]external.TeamRoster{},
	}

	a := api.NewAPI(st, roster, &api.MockMatchConfig{}, &api.MockBracket{}, &config.Config{
		MinSlotDuration: time.Hour,
		MaxSlotDuration: 6 * time.Hour,
		GraceMargin:     time.Hour,
		CancelMargin:    15 * time.Minute,
	})

	_, e := NewServer(Config{Addr: ":0", JWTSecret: testSecret, API: a})
	return e, st
}

// signToken issues a bearer token the way the auth backend does
func signToken(t *testing.T, secret, userID string, roles ...string) string {
	t.Helper()
	claimRoles := make([]any, len(roles))
	for i, r := range roles {
		claimRoles[i] = r
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"_id":      userID,
		"username": "tester",
		"roles":    claimRoles,
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func doRequest(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func seedWebMatch(t *testing.T, st *api.MockStore) primitive.ObjectID {
	t.Helper()
	id, err := st.CreateMatch(store.Match{
		TeamOne: store.TeamRef{CoreID: "team-1", Name: "Natus Vincere"},
		TeamTwo: store.TeamRef{CoreID: "team-2", Name: "FaZe Clan"},
		Game:    shared.GameLOL,
		BestOf:  3,
	})
	require.NoError(t, err)
	return id
}

func TestRequireAuth_MissingToken(t *testing.T) {
	e, _ := newTestServer()

	rec := doRequest(e, http.MethodPost, "/akll-match/timeslot/propose", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please authenticate")
}

func TestRequireAuth_BadSignature(t *testing.T) {
	e, _ := newTestServer()
	token := signToken(t, "wrong-secret", "cap-1")

	rec := doRequest(e, http.MethodPost, "/akll-match/timeslot/propose", token, `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProposeTimeslotHandler_Success(t *testing.T) {
	e, st := newTestServer()
	matchID := seedWebMatch(t, st)
	token := signToken(t, testSecret, "cap-1")

	body := fmt.Sprintf(`{"matchId":%q,"startTime":"2030-03-09T10:00:00Z","endTime":"2030-03-09T12:00:00Z"}`, matchID.Hex())
	rec := doRequest(e, http.MethodPost, "/akll-match/timeslot/propose", token, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"timeslot"`)

	match, err := st.GetMatch(matchID)
	require.NoError(t, err)
	assert.Len(t, match.ProposedTimeslots, 1)
}

func TestProposeTimeslotHandler_BadDuration(t *testing.T) {
	e, st := newTestServer()
	matchID := seedWebMatch(t, st)
	token := signToken(t, testSecret, "cap-1")

	body := fmt.Sprintf(`{"matchId":%q,"startTime":"2030-03-09T10:00:00Z","endTime":"2030-03-09T10:30:00Z"}`, matchID.Hex())
	rec := doRequest(e, http.MethodPost, "/akll-match/timeslot/propose", token, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcceptTimeslotHandler_FullFlow(t *testing.T) {
	e, st := newTestServer()
	matchID := seedWebMatch(t, st)
	proposer := signToken(t, testSecret, "cap-1")
	accepter := signToken(t, testSecret, "cap-2")

	body := fmt.Sprintf(`{"matchId":%q,"startTime":"2030-03-09T10:00:00Z","endTime":"2030-03-09T12:00:00Z"}`, matchID.Hex())
	rec := doRequest(e, http.MethodPost, "/akll-match/timeslot/propose", proposer, body)
	require.Equal(t, http.StatusOK, rec.Code)

	match, err := st.GetMatch(matchID)
	require.NoError(t, err)
	tsID := match.ProposedTimeslots[0]

	acceptBody := fmt.Sprintf(`{"matchId":%q,"timeslotId":%q}`, matchID.Hex(), tsID.Hex())

	// The proposer cannot accept their own slot
	rec = doRequest(e, http.MethodPost, "/akll-match/timeslot/accept", proposer, acceptBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The other captain can
	rec = doRequest(e, http.MethodPost, "/akll-match/timeslot/accept", accepter, acceptBody)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A repeat acceptance observes the conflict
	rec = doRequest(e, http.MethodPost, "/akll-match/timeslot/accept", accepter, acceptBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCancelTimeslotHandler_MissingMatchID(t *testing.T) {
	e, _ := newTestServer()
	token := signToken(t, testSecret, "cap-1")

	rec := doRequest(e, http.MethodPost, "/akll-match/timeslot/cancel", token, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateMatchHandler_RoleMapping(t *testing.T) {
	e, _ := newTestServer()
	body := `{"teamOne":{"coreId":"team-1","name":"A"},"teamTwo":{"coreId":"team-2","name":"B"},"game":"csgo","bestOf":3}`

	rec := doRequest(e, http.MethodPost, "/akll-match/match/create", signToken(t, testSecret, "cap-1"), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(e, http.MethodPost, "/akll-match/match/create", signToken(t, testSecret, "admin-1", "admin"), body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"matchId"`)
}

func TestGetMatchHandler_NotFound(t *testing.T) {
	e, _ := newTestServer()
	token := signToken(t, testSecret, "cap-1")

	rec := doRequest(e, http.MethodGet, "/akll-match/match/"+primitive.NewObjectID().Hex()+"/info", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMatchesForTeamHandler_LockedFilter(t *testing.T) {
	e, st := newTestServer()
	seedWebMatch(t, st)
	token := signToken(t, testSecret, "cap-1")

	rec := doRequest(e, http.MethodGet, "/akll-match/match/team/team-1?matchDateLocked=false", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Natus Vincere")

	rec = doRequest(e, http.MethodGet, "/akll-match/match/team/team-1?matchDateLocked=true", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Natus Vincere")
}

func TestConfirmedMatchesHandler_Public(t *testing.T) {
	e, _ := newTestServer()

	// No token needed for the public read
	rec := doRequest(e, http.MethodGet, "/akll-match/match/confirmed", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchMatchesHandler_MissingQuery(t *testing.T) {
	e, _ := newTestServer()

	rec := doRequest(e, http.MethodGet, "/akll-match/match/search", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{shared.ErrValidation, http.StatusBadRequest},
		{shared.ErrUnauthorized, http.StatusUnauthorized},
		{shared.ErrForbidden, http.StatusForbidden},
		{shared.ErrNotFound, http.StatusNotFound},
		{shared.ErrConflict, http.StatusConflict},
		{shared.ErrUpstream, http.StatusBadGateway},
		{shared.ErrInternal, http.StatusInternalServerError},
		{fmt.Errorf("unclassified"), http.StatusInternalServerError},
	}

	e := echo.New()
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, writeError(c, tt.err))
		assert.Equal(t, tt.status, rec.Code, "error %v", tt.err)
	}
}
