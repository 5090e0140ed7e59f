/* test_mocks.go
 * Contains mock structures for testing the API package. The mock store keeps real
 * conditional-update semantics (accept and lock writes fail when their precondition
 * no longer holds) so the negotiation race behavior can be exercised in memory
 */

package api

import (
	"fmt"
	"time"

	"match-service/api/external"
	"match-service/api/shared"
	"match-service/api/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockStore implements store.Interface in memory
type MockStore struct {
	Matches   map[primitive.ObjectID]store.Match
	Timeslots map[primitive.ObjectID]store.Timeslot
	Servers   []store.Server

	// Error injection for testing error paths
	GetMatchError       error
	InsertTimeslotError error
	ListServersError    error
	LockServerSlotError error
	AcceptTimeslotError error
}

// Ensure MockStore implements the store interface
var _ store.Interface = (*MockStore)(nil)

// NewMockStore creates a new MockStore with empty collections
func NewMockStore() *MockStore {
	return &MockStore{
		Matches:   make(map[primitive.ObjectID]store.Match),
		Timeslots: make(map[primitive.ObjectID]store.Timeslot),
	}
}

func (m *MockStore) InsertTimeslot(ts store.Timeslot) (primitive.ObjectID, error) {
	if m.InsertTimeslotError != nil {
		return primitive.NilObjectID, m.InsertTimeslotError
	}
	ts.ID = primitive.NewObjectID()
	m.Timeslots[ts.ID] = ts
	return ts.ID, nil
}

func (m *MockStore) GetTimeslot(id primitive.ObjectID) (store.Timeslot, error) {
	ts, ok := m.Timeslots[id]
	if !ok {
		return store.Timeslot{}, fmt.Errorf("%w: timeslot %s", shared.ErrNotFound, id.Hex())
	}
	return ts, nil
}

func (m *MockStore) GetTimeslots(ids []primitive.ObjectID) ([]store.Timeslot, error) {
	var slots []store.Timeslot
	for _, id := range ids {
		if ts, ok := m.Timeslots[id]; ok {
			slots = append(slots, ts)
		}
	}
	return slots, nil
}

func (m *MockStore) ExtendTimeslot(id primitive.ObjectID, endTime time.Time) error {
	ts, ok := m.Timeslots[id]
	if !ok {
		return fmt.Errorf("%w: timeslot %s", shared.ErrNotFound, id.Hex())
	}
	ts.EndTime = endTime
	m.Timeslots[id] = ts
	return nil
}

func (m *MockStore) CreateMatch(match store.Match) (primitive.ObjectID, error) {
	for _, existing := range m.Matches {
		if match.ChallongeMatchID != "" && existing.ChallongeMatchID == match.ChallongeMatchID {
			return primitive.NilObjectID, fmt.Errorf("%w: match with challonge id %s already exists", shared.ErrConflict, match.ChallongeMatchID)
		}
	}
	match.ID = primitive.NewObjectID()
	m.Matches[match.ID] = match
	return match.ID, nil
}

func (m *MockStore) InsertMatches(matches []store.Match) (int, error) {
	inserted := 0
	for _, match := range matches {
		if _, err := m.CreateMatch(match); err == nil {
			inserted++
		}
	}
	return inserted, nil
}

func (m *MockStore) GetMatch(id primitive.ObjectID) (store.Match, error) {
	if m.GetMatchError != nil {
		return store.Match{}, m.GetMatchError
	}
	match, ok := m.Matches[id]
	if !ok {
		return store.Match{}, fmt.Errorf("%w: match %s", shared.ErrNotFound, id.Hex())
	}
	return match, nil
}

func (m *MockStore) GetMatchByChallongeID(challongeMatchID string) (store.Match, error) {
	for _, match := range m.Matches {
		if match.ChallongeMatchID != "" && match.ChallongeMatchID == challongeMatchID {
			return match, nil
		}
	}
	return store.Match{}, fmt.Errorf("%w: match with challonge id %s", shared.ErrNotFound, challongeMatchID)
}

func (m *MockStore) ListMatchesForTeam(teamCoreID string, locked *bool) ([]store.Match, error) {
	var matches []store.Match
	for _, match := range m.Matches {
		if !match.HasTeam(teamCoreID) {
			continue
		}
		if locked != nil && match.MatchDateLocked != *locked {
			continue
		}
		matches = append(matches, match)
	}
	return matches, nil
}

func (m *MockStore) ListConfirmedMatches() ([]store.Match, error) {
	var matches []store.Match
	for _, match := range m.Matches {
		if match.MatchDateLocked {
			matches = append(matches, match)
		}
	}
	return matches, nil
}

func (m *MockStore) ListMatches() ([]store.Match, error) {
	var matches []store.Match
	for _, match := range m.Matches {
		matches = append(matches, match)
	}
	return matches, nil
}

func (m *MockStore) AppendProposedTimeslot(matchID primitive.ObjectID, timeslotID primitive.ObjectID) error {
	match, ok := m.Matches[matchID]
	if !ok {
		return fmt.Errorf("%w: match %s", shared.ErrNotFound, matchID.Hex())
	}
	if match.MatchDateLocked || match.MatchPlayed {
		return fmt.Errorf("%w: match date already locked or match played", shared.ErrConflict)
	}
	match.ProposedTimeslots = append(match.ProposedTimeslots, timeslotID)
	m.Matches[matchID] = match
	return nil
}

func (m *MockStore) AcceptTimeslot(matchID primitive.ObjectID, timeslotID primitive.ObjectID, serverID *primitive.ObjectID) error {
	if m.AcceptTimeslotError != nil {
		return m.AcceptTimeslotError
	}
	match, ok := m.Matches[matchID]
	if !ok {
		return fmt.Errorf("%w: match %s", shared.ErrNotFound, matchID.Hex())
	}
	if match.AcceptedTimeslot != nil {
		return fmt.Errorf("%w: match date already locked", shared.ErrConflict)
	}
	match.AcceptedTimeslot = &timeslotID
	match.ProposedTimeslots = nil
	match.MatchDateLocked = true
	match.ServerID = serverID
	m.Matches[matchID] = match
	return nil
}

func (m *MockStore) CancelAcceptedTimeslot(matchID primitive.ObjectID) error {
	match, ok := m.Matches[matchID]
	if !ok {
		return fmt.Errorf("%w: match %s", shared.ErrNotFound, matchID.Hex())
	}
	if !match.MatchDateLocked || match.MatchPlayed {
		return fmt.Errorf("%w: match is not in a cancellable state", shared.ErrConflict)
	}
	match.AcceptedTimeslot = nil
	match.ServerID = nil
	match.MatchDateLocked = false
	m.Matches[matchID] = match
	return nil
}

func (m *MockStore) SetMatchResult(matchID primitive.ObjectID, score store.EndScore) error {
	match, ok := m.Matches[matchID]
	if !ok {
		return fmt.Errorf("%w: match %s", shared.ErrNotFound, matchID.Hex())
	}
	if match.MatchPlayed {
		return fmt.Errorf("%w: match result already recorded", shared.ErrConflict)
	}
	match.EndScore = &score
	match.MatchPlayed = true
	m.Matches[matchID] = match
	return nil
}

func (m *MockStore) CreateServer(srv store.Server) (primitive.ObjectID, error) {
	srv.ID = primitive.NewObjectID()
	if srv.League == "" {
		srv.League = "all"
	}
	m.Servers = append(m.Servers, srv)
	return srv.ID, nil
}

func (m *MockStore) GetServer(id primitive.ObjectID) (store.Server, error) {
	for _, srv := range m.Servers {
		if srv.ID == id {
			return srv, nil
		}
	}
	return store.Server{}, fmt.Errorf("%w: server %s", shared.ErrNotFound, id.Hex())
}

func (m *MockStore) ListServers(league string) ([]store.Server, error) {
	if m.ListServersError != nil {
		return nil, m.ListServersError
	}
	out := make([]store.Server, len(m.Servers))
	copy(out, m.Servers)
	return out, nil
}

func (m *MockStore) LockServerSlot(serverID primitive.ObjectID, slot store.LockedSlot) error {
	if m.LockServerSlotError != nil {
		return m.LockServerSlotError
	}
	for i, srv := range m.Servers {
		if srv.ID != serverID {
			continue
		}
		for _, locked := range srv.LockedTimeslots {
			if locked.StartTime.Before(slot.EndTime) && slot.StartTime.Before(locked.EndTime) {
				return fmt.Errorf("%w: server already has an overlapping locked timeslot", shared.ErrConflict)
			}
		}
		m.Servers[i].LockedTimeslots = append(m.Servers[i].LockedTimeslots, slot)
		return nil
	}
	return fmt.Errorf("%w: server %s", shared.ErrNotFound, serverID.Hex())
}

func (m *MockStore) ReleaseServerSlot(serverID primitive.ObjectID, timeslotID primitive.ObjectID) error {
	for i, srv := range m.Servers {
		if srv.ID != serverID {
			continue
		}
		var kept []store.LockedSlot
		for _, locked := range srv.LockedTimeslots {
			if locked.TimeslotID != timeslotID {
				kept = append(kept, locked)
			}
		}
		m.Servers[i].LockedTimeslots = kept
		return nil
	}
	return fmt.Errorf("%w: server %s", shared.ErrNotFound, serverID.Hex())
}

// MockRoster implements external.RosterAPI
type MockRoster struct {
	// Captains maps a team core id to the user ids of its captains
	Captains map[string][]string
	Rosters  map[string]external.TeamRoster

	GetCaptainIDsError error
	GetTeamRosterError error
}

var _ external.RosterAPI = (*MockRoster)(nil)

func (m *MockRoster) GetCaptainIDs(teamIDs []string) ([]string, error) {
	if m.GetCaptainIDsError != nil {
		return nil, m.GetCaptainIDsError
	}
	var ids []string
	for _, teamID := range teamIDs {
		ids = append(ids, m.Captains[teamID]...)
	}
	return ids, nil
}

func (m *MockRoster) GetTeamRoster(teamID string) (external.TeamRoster, error) {
	if m.GetTeamRosterError != nil {
		return external.TeamRoster{}, m.GetTeamRosterError
	}
	if roster, ok := m.Rosters[teamID]; ok {
		return roster, nil
	}
	return external.TeamRoster{TeamID: teamID, Name: "Team " + teamID, Tag: teamID}, nil
}

// MockMatchConfig implements external.MatchConfigAPI and records every call
type MockMatchConfig struct {
	CreateCalls []external.MatchConfigRequest
	CancelCalls []string

	CreateError error
	CancelError error
}

var _ external.MatchConfigAPI = (*MockMatchConfig)(nil)

func (m *MockMatchConfig) CreateMatchConfig(req external.MatchConfigRequest) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.CreateCalls = append(m.CreateCalls, req)
	return nil
}

func (m *MockMatchConfig) CancelMatchConfig(matchID string) error {
	if m.CancelError != nil {
		return m.CancelError
	}
	m.CancelCalls = append(m.CancelCalls, matchID)
	return nil
}

// MockBracket implements external.BracketAPI
type MockBracket struct {
	Matches []external.BracketMatch
	Error   error
}

var _ external.BracketAPI = (*MockBracket)(nil)

func (m *MockBracket) GetTournamentMatches(tournamentID string) ([]external.BracketMatch, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	if len(m.Matches) == 0 {
		return nil, fmt.Errorf("%w: no matches found for tournament %s, has it started?", shared.ErrNotFound, tournamentID)
	}
	return m.Matches, nil
}
