/* api.go
 * Contains the public methods for the match service core: the propose/accept/cancel
 * negotiation flow, match creation and bracket import, and the read queries. For
 * consistent results, functions should only be called from this file, not the sub
 * packages for store and logic
 */

package api

import (
	"errors"
	"fmt"
	"log"
	"time"

	"match-service/api/external"
	"match-service/api/logic"
	"match-service/api/shared"
	"match-service/api/store"
	"match-service/config"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// API provides the match negotiation operations. Store and the three external
// clients are interfaces so tests can run against mocks
type API struct {
	Store       store.Interface
	Roster      external.RosterAPI
	MatchConfig external.MatchConfigAPI
	Bracket     external.BracketAPI
	Cfg         *config.Config

	// Now is the time source for the cancellation guard; tests pin it
	Now func() time.Time
}

// NewAPI creates a new API instance with the provided collaborators
func NewAPI(st store.Interface, roster external.RosterAPI, matchConfig external.MatchConfigAPI, bracket external.BracketAPI, cfg *config.Config) *API {
	return &API{
		Store:       st,
		Roster:      roster,
		MatchConfig: matchConfig,
		Bracket:     bracket,
		Cfg:         cfg,
		Now:         time.Now,
	}
}

// parseID converts a hex id from a request into an ObjectID
func parseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id %q", shared.ErrValidation, hex)
	}
	return id, nil
}

// isCaptain checks the caller against the captains of both competing teams
func (a *API) isCaptain(user shared.User, m store.Match) (bool, error) {
	captains, err := a.Roster.GetCaptainIDs([]string{m.TeamOne.CoreID, m.TeamTwo.CoreID})
	if err != nil {
		return false, err
	}
	for _, id := range captains {
		if id == user.UserID {
			return true, nil
		}
	}
	return false, nil
}

// captainTeam resolves which of the two teams the caller captains. Used when the
// timeslot record needs the proposer's team, not just a yes/no captain check
func (a *API) captainTeam(user shared.User, m store.Match) (string, error) {
	for _, team := range []store.TeamRef{m.TeamOne, m.TeamTwo} {
		captains, err := a.Roster.GetCaptainIDs([]string{team.CoreID})
		if err != nil {
			return "", err
		}
		for _, id := range captains {
			if id == user.UserID {
				return team.CoreID, nil
			}
		}
	}
	return "", fmt.Errorf("%w: only captains can propose timeslots", shared.ErrUnauthorized)
}

// ProposeTimeslot records a proposed play window for a match. The match must exist,
// be neither date-locked nor played, the duration must lie within the configured
// bounds, and the caller must captain one of the two teams. Proposals accumulate;
// there is no uniqueness constraint on them.
func (a *API) ProposeTimeslot(user shared.User, req ProposeTimeslotRequest) (store.Timeslot, error) {
	matchID, err := parseID(req.MatchID)
	if err != nil {
		return store.Timeslot{}, err
	}

	match, err := a.Store.GetMatch(matchID)
	if err != nil {
		return store.Timeslot{}, err
	}
	if match.MatchDateLocked {
		return store.Timeslot{}, fmt.Errorf("%w: match date already locked", shared.ErrConflict)
	}
	if match.MatchPlayed {
		return store.Timeslot{}, fmt.Errorf("%w: match has already been played", shared.ErrConflict)
	}

	if !logic.ValidateSlotDuration(req.StartTime, req.EndTime, a.Cfg.MinSlotDuration, a.Cfg.MaxSlotDuration) {
		return store.Timeslot{}, fmt.Errorf("%w: timeslot duration must be between %s and %s",
			shared.ErrValidation, a.Cfg.MinSlotDuration, a.Cfg.MaxSlotDuration)
	}

	teamID, err := a.captainTeam(user, match)
	if err != nil {
		return store.Timeslot{}, err
	}

	ts := store.Timeslot{
		ProposerID:     user.UserID,
		ProposerTeamID: teamID,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
	}
	tsID, err := a.Store.InsertTimeslot(ts)
	if err != nil {
		return store.Timeslot{}, err
	}
	ts.ID = tsID

	if err := a.Store.AppendProposedTimeslot(matchID, tsID); err != nil {
		return store.Timeslot{}, err
	}
	return ts, nil
}

// AcceptTimeslot accepts one of a match's proposed timeslots, extends its end by the
// grace margin, and for server games locks the window on the first free server. The
// precondition checks run in a fixed order and the first violated one wins. The local
// commit only happens after the config service accepted the provisioning request; if
// a local write then loses its race, the provisioning is withdrawn again so the two
// sides cannot drift apart.
func (a *API) AcceptTimeslot(user shared.User, req AcceptTimeslotRequest) error {
	matchID, err := parseID(req.MatchID)
	if err != nil {
		return err
	}
	timeslotID, err := parseID(req.TimeslotID)
	if err != nil {
		return err
	}

	// 1. Match exists
	match, err := a.Store.GetMatch(matchID)
	if err != nil {
		return err
	}

	// 2. No timeslot accepted yet
	if match.AcceptedTimeslot != nil || match.MatchDateLocked {
		return fmt.Errorf("%w: match date already locked", shared.ErrConflict)
	}

	// 3. The timeslot is one of this match's proposals
	if !match.HasProposedTimeslot(timeslotID) {
		return fmt.Errorf("%w: timeslot not proposed for this match", shared.ErrNotFound)
	}
	ts, err := a.Store.GetTimeslot(timeslotID)
	if err != nil {
		return err
	}

	// 4. A captain cannot accept their own proposal
	if ts.ProposerID == user.UserID {
		return fmt.Errorf("%w: cannot accept a timeslot you proposed yourself", shared.ErrValidation)
	}

	// 5. Caller captains one of the two teams
	ok, err := a.isCaptain(user, match)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: only captains can accept timeslots", shared.ErrUnauthorized)
	}

	// Setup/teardown buffer between matches on the same server
	start := ts.StartTime
	end := ts.EndTime.Add(a.Cfg.GraceMargin)

	if !match.Game.RequiresServer() {
		if err := a.Store.AcceptTimeslot(matchID, timeslotID, nil); err != nil {
			return err
		}
		if err := a.Store.ExtendTimeslot(timeslotID, end); err != nil {
			log.Printf("failed to persist grace extension for timeslot %s: %v", timeslotID.Hex(), err)
		}
		return nil
	}

	servers, err := a.Store.ListServers("")
	if err != nil {
		return err
	}
	srv := logic.FirstFreeServer(servers, start, end)
	if srv == nil {
		return fmt.Errorf("%w: no empty servers for the accepted timeslot", shared.ErrConflict)
	}

	rosterOne, err := a.Roster.GetTeamRoster(match.TeamOne.CoreID)
	if err != nil {
		return err
	}
	rosterTwo, err := a.Roster.GetTeamRoster(match.TeamTwo.CoreID)
	if err != nil {
		return err
	}

	cfgReq := external.MatchConfigRequest{
		MatchID:    matchID.Hex(),
		ServerName: srv.Name,
		StartTime:  start,
		EndTime:    end,
		BestOf:     match.BestOf,
		MapPool:    a.Cfg.MapPool,
		Spectators: a.Cfg.Spectators,
		TeamOne:    external.ConfigTeam{Name: rosterOne.Name, Tag: rosterOne.Tag, Players: rosterOne.Players},
		TeamTwo:    external.ConfigTeam{Name: rosterTwo.Name, Tag: rosterTwo.Tag, Players: rosterTwo.Players},
	}
	if err := a.MatchConfig.CreateMatchConfig(cfgReq); err != nil {
		return err
	}

	// Local commit. Each write is conditional; losing a race here means another
	// request claimed the server or the match since our scan, so the provisioning
	// just posted has to be withdrawn again.
	slot := store.LockedSlot{TimeslotID: timeslotID, StartTime: start, EndTime: end}
	if err := a.Store.LockServerSlot(srv.ID, slot); err != nil {
		a.compensateProvisioning(matchID)
		return err
	}
	if err := a.Store.AcceptTimeslot(matchID, timeslotID, &srv.ID); err != nil {
		if releaseErr := a.Store.ReleaseServerSlot(srv.ID, timeslotID); releaseErr != nil {
			log.Printf("failed to release server slot while unwinding acceptance of match %s: %v", matchID.Hex(), releaseErr)
		}
		a.compensateProvisioning(matchID)
		return err
	}
	if err := a.Store.ExtendTimeslot(timeslotID, end); err != nil {
		log.Printf("failed to persist grace extension for timeslot %s: %v", timeslotID.Hex(), err)
	}
	return nil
}

// compensateProvisioning withdraws a config-service provisioning after a local write
// lost its race. Failure here leaves the config service ahead of us and needs an
// operator; it is logged loudly rather than masked
func (a *API) compensateProvisioning(matchID primitive.ObjectID) {
	if err := a.MatchConfig.CancelMatchConfig(matchID.Hex()); err != nil {
		log.Printf("COMPENSATION FAILED: config service still holds provisioning for match %s: %v", matchID.Hex(), err)
	}
}

// CancelTimeslot cancels a locked timeslot. The match must be date-locked and
// unplayed, the caller must captain one of the teams, and the locked start must
// still be more than the safety margin away. The config-service withdrawal runs
// first; if it fails nothing is changed locally.
func (a *API) CancelTimeslot(user shared.User, matchIDHex string) error {
	matchID, err := parseID(matchIDHex)
	if err != nil {
		return err
	}

	match, err := a.Store.GetMatch(matchID)
	if err != nil {
		return err
	}
	if !match.MatchDateLocked || match.MatchPlayed || match.AcceptedTimeslot == nil {
		return fmt.Errorf("%w: match has no locked timeslot to cancel, or it has already been played", shared.ErrNotFound)
	}

	ok, err := a.isCaptain(user, match)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: only captains can cancel locked timeslots", shared.ErrUnauthorized)
	}

	ts, err := a.Store.GetTimeslot(*match.AcceptedTimeslot)
	if err != nil {
		return err
	}
	if !logic.CanCancel(a.Now(), ts.StartTime, a.Cfg.CancelMargin) {
		return fmt.Errorf("%w: match must be cancelled at least %s before match start",
			shared.ErrValidation, a.Cfg.CancelMargin)
	}

	// External withdrawal first: never mark cancelled locally while the config
	// service still thinks the match is on
	if err := a.MatchConfig.CancelMatchConfig(matchID.Hex()); err != nil {
		return err
	}

	if match.ServerID != nil {
		if err := a.Store.ReleaseServerSlot(*match.ServerID, *match.AcceptedTimeslot); err != nil {
			return err
		}
	}
	return a.Store.CancelAcceptedTimeslot(matchID)
}

// CreateMatch creates a single match directly. Only admins can create matches.
func (a *API) CreateMatch(user shared.User, req CreateMatchRequest) (primitive.ObjectID, error) {
	if !user.IsAdmin() {
		return primitive.NilObjectID, fmt.Errorf("%w: only admins are allowed to create matches", shared.ErrForbidden)
	}

	game := shared.Game(req.Game)
	if !game.Valid() {
		return primitive.NilObjectID, fmt.Errorf("%w: unknown game %q", shared.ErrValidation, req.Game)
	}
	if req.TeamOne.CoreID == "" || req.TeamTwo.CoreID == "" || req.TeamOne.Name == "" || req.TeamTwo.Name == "" {
		return primitive.NilObjectID, fmt.Errorf("%w: both teams need a core id and a name", shared.ErrValidation)
	}
	if req.BestOf < 1 {
		return primitive.NilObjectID, fmt.Errorf("%w: bestOf must be at least 1", shared.ErrValidation)
	}

	m := store.Match{
		ChallongeMatchID: req.ChallongeMatchID,
		ChallongeRound:   req.ChallongeRound,
		TeamOne:          store.TeamRef{CoreID: req.TeamOne.CoreID, Name: req.TeamOne.Name, ChallongeID: req.TeamOne.ChallongeID},
		TeamTwo:          store.TeamRef{CoreID: req.TeamTwo.CoreID, Name: req.TeamTwo.Name, ChallongeID: req.TeamTwo.ChallongeID},
		Game:             game,
		BestOf:           req.BestOf,
		MatchDeadline:    req.MatchDeadline,
	}
	return a.Store.CreateMatch(m)
}

// ImportBracketMatches fetches the pairings of a started tournament from the
// challonge service and bulk-inserts them. Pairings whose challonge match id was
// already imported are skipped; the rest of the batch still goes in. Only admins
// and moderators can import.
func (a *API) ImportBracketMatches(user shared.User, tournamentID string, game string, bestOf int) (int, error) {
	if !user.IsStaff() {
		return 0, fmt.Errorf("%w: only admins and moderators are allowed to import matches", shared.ErrForbidden)
	}

	g := shared.Game(game)
	if !g.Valid() {
		return 0, fmt.Errorf("%w: unknown game %q", shared.ErrValidation, game)
	}
	if bestOf < 1 {
		return 0, fmt.Errorf("%w: bestOf must be at least 1", shared.ErrValidation)
	}

	pairings, err := a.Bracket.GetTournamentMatches(tournamentID)
	if err != nil {
		return 0, err
	}

	matches := make([]store.Match, len(pairings))
	for i, p := range pairings {
		matches[i] = store.Match{
			ChallongeMatchID: p.MatchID,
			ChallongeRound:   p.Round,
			TeamOne:          store.TeamRef{CoreID: p.TeamOneCoreID, Name: p.TeamOneName, ChallongeID: p.TeamOne},
			TeamTwo:          store.TeamRef{CoreID: p.TeamTwoCoreID, Name: p.TeamTwoName, ChallongeID: p.TeamTwo},
			Game:             g,
			BestOf:           bestOf,
		}
	}
	return a.Store.InsertMatches(matches)
}

// CreateServer registers a game server in the shared pool. Only admins and
// moderators can register servers.
func (a *API) CreateServer(user shared.User, req CreateServerRequest) (primitive.ObjectID, error) {
	if !user.IsStaff() {
		return primitive.NilObjectID, fmt.Errorf("%w: only admins and moderators are allowed to create servers", shared.ErrForbidden)
	}
	if req.Name == "" || req.IP == "" || req.Port <= 0 {
		return primitive.NilObjectID, fmt.Errorf("%w: server needs a name, ip and port", shared.ErrValidation)
	}
	switch req.League {
	case "", "all", "pro", "division":
	default:
		return primitive.NilObjectID, fmt.Errorf("%w: unknown league %q", shared.ErrValidation, req.League)
	}

	return a.Store.CreateServer(store.Server{
		Name:     req.Name,
		IP:       req.IP,
		Port:     req.Port,
		Password: req.Password,
		League:   req.League,
	})
}

// SetMatchResult records the final score of a match and marks it played. Only admins
// and moderators can record results.
func (a *API) SetMatchResult(user shared.User, matchIDHex string, req MatchResultRequest) error {
	if !user.IsStaff() {
		return fmt.Errorf("%w: only admins and moderators are allowed to record results", shared.ErrForbidden)
	}
	matchID, err := parseID(matchIDHex)
	if err != nil {
		return err
	}
	if req.WinnerScore < req.LoserScore {
		return fmt.Errorf("%w: winner score cannot be below loser score", shared.ErrValidation)
	}

	return a.Store.SetMatchResult(matchID, store.EndScore{
		WinnerID:    req.WinnerID,
		WinnerName:  req.WinnerName,
		WinnerScore: req.WinnerScore,
		LoserScore:  req.LoserScore,
	})
}

// GetMatch returns a match with its timeslot and server references resolved
func (a *API) GetMatch(matchIDHex string) (MatchDetail, error) {
	matchID, err := parseID(matchIDHex)
	if err != nil {
		return MatchDetail{}, err
	}

	match, err := a.Store.GetMatch(matchID)
	if err != nil {
		return MatchDetail{}, err
	}

	detail := MatchDetail{Match: match}

	if len(match.ProposedTimeslots) > 0 {
		slots, err := a.Store.GetTimeslots(match.ProposedTimeslots)
		if err != nil {
			return MatchDetail{}, err
		}
		detail.ProposedTimeslots = slots
	}
	if match.AcceptedTimeslot != nil {
		ts, err := a.Store.GetTimeslot(*match.AcceptedTimeslot)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return MatchDetail{}, err
		}
		if err == nil {
			detail.AcceptedTimeslot = &ts
		}
	}
	if match.ServerID != nil {
		srv, err := a.Store.GetServer(*match.ServerID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return MatchDetail{}, err
		}
		if err == nil {
			detail.Server = &srv
		}
	}
	return detail, nil
}

// MatchByChallongeID returns the match imported under a challonge match id, so the
// bracket side can refer to a pairing by its own identifier
func (a *API) MatchByChallongeID(challongeMatchID string) (store.Match, error) {
	if challongeMatchID == "" {
		return store.Match{}, fmt.Errorf("%w: challonge match id cannot be empty", shared.ErrValidation)
	}
	return a.Store.GetMatchByChallongeID(challongeMatchID)
}

// MatchesForTeam returns every match involving a team, optionally filtered by lock
// state
func (a *API) MatchesForTeam(teamCoreID string, locked *bool) ([]store.Match, error) {
	if teamCoreID == "" {
		return nil, fmt.Errorf("%w: team id cannot be empty", shared.ErrValidation)
	}
	return a.Store.ListMatchesForTeam(teamCoreID, locked)
}

// ConfirmedMatches returns every match whose date has been locked
func (a *API) ConfirmedMatches() ([]store.Match, error) {
	return a.Store.ListConfirmedMatches()
}

// SearchMatchesByTeamName returns the matches whose team names fuzzily match the
// query, best matches first
func (a *API) SearchMatchesByTeamName(query string) ([]store.Match, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query cannot be empty", shared.ErrValidation)
	}
	matches, err := a.Store.ListMatches()
	if err != nil {
		return nil, err
	}
	return logic.FilterMatchesByTeamName(matches, query), nil
}
