// tally-useradd creates an identity in the global users database and
// prints the generated API token. Run it once per tenant before the
// server hands out shards for them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"tally/internal/auth"
	"tally/internal/cli"
	"tally/internal/config"
	"tally/internal/storage"
)

func main() {
	cli.LoadEnvFile()

	username := flag.String("username", "", "username for the new identity (required)")
	role := flag.String("role", string(auth.RoleUser), "role: user or superadmin")
	flag.Parse()

	if *username == "" {
		log.Fatal("-username is required")
	}
	if *role != string(auth.RoleUser) && *role != string(auth.RoleSuperadmin) {
		log.Fatalf("invalid role %q: must be user or superadmin", *role)
	}

	cfg := config.Load()
	users, err := storage.OpenUserStore(cfg.UsersDBPath)
	if err != nil {
		log.Fatalf("open users database: %v", err)
	}
	defer users.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := users.CreateUser(ctx, *username, *role)
	if err != nil {
		log.Fatalf("create user: %v", err)
	}

	fmt.Printf("created user %q (tenant id %d, role %s)\n", user.Username, user.ID, user.Role)
	fmt.Printf("api token: %s\n", user.APIToken)
}
