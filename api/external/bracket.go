/* bracket.go
 * Contains the client for the challonge-integration service that owns tournament
 * brackets. Matches are imported from it in bulk when a tournament starts
 */

package external

import (
	"fmt"

	"match-service/api/shared"
)

// BracketAPI reports the pairings of a tournament bracket
type BracketAPI interface {
	GetTournamentMatches(tournamentID string) ([]BracketMatch, error)
}

// BracketClient talks to the challonge service over HTTP
type BracketClient struct {
	client
}

// Ensure BracketClient implements BracketAPI
var _ BracketAPI = (*BracketClient)(nil)

func NewBracketClient(baseURL string) *BracketClient {
	return &BracketClient{client: newClient(baseURL)}
}

// Function to fetch the pairings of a started tournament
// Preconditions: Receives the challonge tournament id
// Postconditions: Returns the pairings with team core ids, names and bracket-local
// ids, shared.ErrNotFound if the tournament has none, or a wrapped shared.ErrUpstream
func (c *BracketClient) GetTournamentMatches(tournamentID string) ([]BracketMatch, error) {
	var res struct {
		Matches []BracketMatch `json:"matches"`
	}
	if err := c.doJSON("GET", fmt.Sprintf("/service/%s/matches", tournamentID), nil, &res); err != nil {
		return nil, fmt.Errorf("error getting matches from challonge service: %w", err)
	}

	if len(res.Matches) == 0 {
		return nil, fmt.Errorf("%w: no matches found for tournament %s, has it started?", shared.ErrNotFound, tournamentID)
	}
	return res.Matches, nil
}
