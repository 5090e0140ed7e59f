/* models.go
 * This file contains the structs and helper functions that are shared between sub packages
 */

package shared

// User is the identity payload attached to every mutating request. It is
// issued and verified by the upstream auth backend; this service trusts it.
type User struct {
	UserID   string
	Username string
	Roles    []string
}

// HasRole reports whether the user carries the given role
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user has the admin role
func (u User) IsAdmin() bool {
	return u.HasRole("admin")
}

// IsStaff reports whether the user has the admin or moderator role
func (u User) IsStaff() bool {
	return u.HasRole("admin") || u.HasRole("moderator")
}

// Game identifies which title a match is played in. Only some games need a
// dedicated server from the pool; the others still go through the same
// propose/accept/cancel flow but skip server allocation.
type Game string

const (
	GameCSGO Game = "csgo"
	GameLOL  Game = "lol"
)

// Valid reports whether g is a supported game
func (g Game) Valid() bool {
	switch g {
	case GameCSGO, GameLOL:
		return true
	}
	return false
}

// RequiresServer reports whether matches in this game need a server from
// the shared pool before their date can be locked
func (g Game) RequiresServer() bool {
	return g == GameCSGO
}
