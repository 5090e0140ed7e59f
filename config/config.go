/* config.go
 * Contains the service configuration. Everything tunable lives in one struct that is
 * built once at startup and passed by reference into the negotiation and allocation
 * code; nothing below this package reads the environment
 */

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-andiamo/splitter"
	"github.com/spf13/viper"
)

// Config holds every tunable of the match service
type Config struct {
	ListenAddr string
	MongoURI   string
	Database   string

	// External collaborators
	RosterURL        string
	ConfigServiceURL string
	BracketURL       string

	// Identity
	JWTSecret string

	// Negotiation rules
	MinSlotDuration time.Duration
	MaxSlotDuration time.Duration
	GraceMargin     time.Duration
	CancelMargin    time.Duration

	// Provisioning defaults
	MapPool    []string
	Spectators []string
}

var defaultMapPool = []string{
	"de_inferno", "de_train", "de_mirage",
	"de_nuke", "de_overpass", "de_dust2", "de_vertigo",
}

// Function to load the configuration from the environment with sane defaults
// Preconditions: Environment variables (MATCHSVC_*) override defaults; a .env file, if
// present, is loaded by main before this runs
// Postconditions: Returns the populated Config, or an error for unparseable values
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("matchsvc")
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":3002")
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("database", "match_service")
	v.SetDefault("roster_url", "http://localhost:3000/akll")
	v.SetDefault("config_service_url", "http://localhost:3004")
	v.SetDefault("bracket_url", "http://localhost:3003")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("min_slot_duration", "1h")
	v.SetDefault("max_slot_duration", "6h")
	v.SetDefault("grace_margin", "1h")
	v.SetDefault("cancel_margin", "15m")
	v.SetDefault("map_pool", defaultMapPool)
	v.SetDefault("spectators", "")

	cfg := &Config{
		ListenAddr:       v.GetString("listen_addr"),
		MongoURI:         v.GetString("mongo_uri"),
		Database:         v.GetString("database"),
		RosterURL:        v.GetString("roster_url"),
		ConfigServiceURL: v.GetString("config_service_url"),
		BracketURL:       v.GetString("bracket_url"),
		JWTSecret:        v.GetString("jwt_secret"),
		MinSlotDuration:  v.GetDuration("min_slot_duration"),
		MaxSlotDuration:  v.GetDuration("max_slot_duration"),
		GraceMargin:      v.GetDuration("grace_margin"),
		CancelMargin:     v.GetDuration("cancel_margin"),
		MapPool:          v.GetStringSlice("map_pool"),
	}

	spectators, err := ParseNameList(v.GetString("spectators"))
	if err != nil {
		return nil, fmt.Errorf("invalid spectators value: %w", err)
	}
	cfg.Spectators = spectators

	if cfg.MinSlotDuration <= 0 || cfg.MaxSlotDuration < cfg.MinSlotDuration {
		return nil, fmt.Errorf("invalid slot duration bounds: min %s, max %s", cfg.MinSlotDuration, cfg.MaxSlotDuration)
	}

	return cfg, nil
}

// Function to parse a space-separated name list. Names containing spaces can be double
// quoted, e.g. `"Caster One" flashbang`, which go's strings.Fields cannot handle
// Preconditions: Receives the raw list value
// Postconditions: Returns the individual names with surrounding quotes stripped
func ParseNameList(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}

	spaceSplitter, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		return nil, err
	}

	parts, err := spaceSplitter.Split(raw)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, p := range parts {
		p = strings.Trim(p, "\"“”")
		if p != "" {
			names = append(names, p)
		}
	}
	return names, nil
}
