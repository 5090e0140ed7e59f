/* models.go
 * Contains the web server configuration and the server struct that binds handlers to
 * the API
 */

package web

import (
	"match-service/api/api"
)

// Config holds the configuration for the web server
type Config struct {
	Addr      string
	JWTSecret string
	API       *api.API
}

// Server is the HTTP server exposing the match service operations
type Server struct {
	api       *api.API
	jwtSecret string
}

// statusResponse is the envelope every mutating endpoint replies with
type statusResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
