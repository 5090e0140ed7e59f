/* models_test.go
 * Contains unit tests for models.go
 */

package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_Roles(t *testing.T) {
	admin := User{UserID: "u1", Roles: []string{"admin"}}
	mod := User{UserID: "u2", Roles: []string{"moderator"}}
	player := User{UserID: "u3"}

	assert.True(t, admin.HasRole("admin"))
	assert.False(t, admin.HasRole("moderator"))
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.IsStaff())

	assert.False(t, mod.IsAdmin())
	assert.True(t, mod.IsStaff())

	assert.False(t, player.IsAdmin())
	assert.False(t, player.IsStaff())
	assert.False(t, player.HasRole("admin"))
}

func TestGame_Valid(t *testing.T) {
	assert.True(t, GameCSGO.Valid())
	assert.True(t, GameLOL.Valid())
	assert.False(t, Game("chess").Valid())
	assert.False(t, Game("").Valid())
}

func TestGame_RequiresServer(t *testing.T) {
	assert.True(t, GameCSGO.RequiresServer())
	assert.False(t, GameLOL.RequiresServer())
}
