/* matchconfig.go
 * Contains the client for the match-config provisioning service, which prepares the
 * game server for a locked match and tears it down on cancellation
 */

package external

import "fmt"

// MatchConfigAPI provisions and withdraws game server configs
type MatchConfigAPI interface {
	CreateMatchConfig(req MatchConfigRequest) error
	CancelMatchConfig(matchID string) error
}

// MatchConfigClient talks to the config service over HTTP
type MatchConfigClient struct {
	client
}

// Ensure MatchConfigClient implements MatchConfigAPI
var _ MatchConfigAPI = (*MatchConfigClient)(nil)

func NewMatchConfigClient(baseURL string) *MatchConfigClient {
	return &MatchConfigClient{client: newClient(baseURL)}
}

// Function to submit a provisioning request for a locked match
// Preconditions: Receives the full MatchConfigRequest including rosters, map pool,
// spectators and the locked time window
// Postconditions: Returns nil on success or a wrapped shared.ErrUpstream
func (c *MatchConfigClient) CreateMatchConfig(req MatchConfigRequest) error {
	if err := c.doJSON("POST", "/service/config/create", req, nil); err != nil {
		return fmt.Errorf("error creating match config: %w", err)
	}
	return nil
}

// Function to withdraw provisioning for a match, either on cancellation or as the
// compensating action when a local lock write loses its race after provisioning
// Preconditions: Receives the match id the config was created under
// Postconditions: Returns nil on success or a wrapped shared.ErrUpstream
func (c *MatchConfigClient) CancelMatchConfig(matchID string) error {
	if err := c.doJSON("POST", fmt.Sprintf("/service/config/%s/delete", matchID), nil, nil); err != nil {
		return fmt.Errorf("error cancelling match config: %w", err)
	}
	return nil
}
