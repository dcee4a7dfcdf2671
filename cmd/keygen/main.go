// Provisions an admin API key: generates a random secret, stores its bcrypt
// hash, and prints the composite credential once. The plaintext secret is
// never stored.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/iwishbag/tariffbox/internal/auth"
	"github.com/iwishbag/tariffbox/internal/database"
)

type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
}

func main() {
	identifier := flag.String("identifier", "", "Unique identifier for the key (required)")
	label := flag.String("label", "", "Optional human-readable label")
	flag.Parse()

	if *identifier == "" {
		log.Fatal("-identifier is required")
	}

	var cfg Config
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process config: %v", err)
	}

	ctx := context.Background()
	dbpool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer dbpool.Close()

	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		log.Fatalf("Failed to generate secret: %v", err)
	}
	secret := hex.EncodeToString(secretBytes)

	hash, err := auth.HashAPIKey(secret)
	if err != nil {
		log.Fatalf("Failed to hash secret: %v", err)
	}

	params := database.CreateAPIKeyParams{
		Identifier: *identifier,
		APIKeyHash: hash,
	}
	if *label != "" {
		params.Label = label
	}

	key, err := database.New(dbpool).CreateAPIKey(ctx, params)
	if err != nil {
		log.Fatalf("Failed to store API key: %v", err)
	}

	log.Printf("Created admin API key id=%d identifier=%s", key.ID, key.Identifier)
	fmt.Printf("X-API-Key: %s.%s\n", key.Identifier, secret)
	fmt.Println("Store this credential now; the secret cannot be recovered.")
}
