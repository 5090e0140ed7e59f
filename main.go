/* main.go
 * The entry point for the match service. Wires the store, the external service
 * clients and the API together, then serves HTTP until it is stopped.
 * Usage: go run main.go (configuration via MATCHSVC_* environment variables or .env)
 */

package main

import (
	"context"
	"log"

	"match-service/api/api"
	"match-service/api/external"
	"match-service/api/store"
	"match-service/config"
	"match-service/web"

	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded:", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	st, err := store.NewStore(cfg.Database, cfg.MongoURI)
	if err != nil {
		log.Fatalf("failed to initialize store: %v", err)
	}
	defer func() {
		if err := st.Client.Disconnect(context.TODO()); err != nil {
			log.Println("error disconnecting from mongo:", err)
		}
	}()

	if err := st.EnsureIndexes(); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	a := api.NewAPI(
		st,
		external.NewRosterClient(cfg.RosterURL),
		external.NewMatchConfigClient(cfg.ConfigServiceURL),
		external.NewBracketClient(cfg.BracketURL),
		cfg,
	)

	if err := web.Start(web.Config{
		Addr:      cfg.ListenAddr,
		JWTSecret: cfg.JWTSecret,
		API:       a,
	}); err != nil {
		log.Fatalf("http server stopped: %v", err)
	}
}
