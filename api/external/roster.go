/* roster.go
 * Contains the client for the roster/captain-resolution service (the league's main
 * backend). The service owns teams and their memberships; this service only holds
 * weak references and asks for captains and rosters when it needs them
 */

package external

import "fmt"

// RosterAPI resolves captains and rosters for teams
type RosterAPI interface {
	GetCaptainIDs(teamIDs []string) ([]string, error)
	GetTeamRoster(teamID string) (TeamRoster, error)
}

// RosterClient talks to the league backend over HTTP
type RosterClient struct {
	client
}

// Ensure RosterClient implements RosterAPI
var _ RosterAPI = (*RosterClient)(nil)

func NewRosterClient(baseURL string) *RosterClient {
	return &RosterClient{client: newClient(baseURL)}
}

// Function to resolve the captains of a set of teams
// Preconditions: Receives a slice of team core ids
// Postconditions: Returns the user ids of every captain of those teams, or a wrapped
// shared.ErrUpstream
func (c *RosterClient) GetCaptainIDs(teamIDs []string) ([]string, error) {
	payload := map[string][]string{"teamIdArray": teamIDs}

	var res struct {
		Captains []string `json:"captains"`
	}
	if err := c.doJSON("POST", "/team/get-captains", payload, &res); err != nil {
		return nil, fmt.Errorf("error fetching captains: %w", err)
	}
	return res.Captains, nil
}

// Function to fetch the full roster of one team
// Preconditions: Receives the team core id
// Postconditions: Returns the TeamRoster with per-player identity and display name,
// or a wrapped shared.ErrUpstream
func (c *RosterClient) GetTeamRoster(teamID string) (TeamRoster, error) {
	var res TeamRoster
	if err := c.doJSON("GET", fmt.Sprintf("/team/%s/roster", teamID), nil, &res); err != nil {
		return TeamRoster{}, fmt.Errorf("error fetching roster for team %s: %w", teamID, err)
	}
	return res, nil
}
