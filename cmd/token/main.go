// Command token mints access tokens for local development, standing in for the identity provider.
//
//	go run ./cmd/token -user 3
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dadasys/parkovaci-app/internal/auth"
)

func main() {
	userID := flag.Int64("user", 0, "user id to embed in the token")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if *userID <= 0 {
		log.Fatal("-user must be a positive user id")
	}

	token, err := auth.NewJWTManager(secret, *ttl).GenerateAccessToken(*userID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	fmt.Println(token)
}
