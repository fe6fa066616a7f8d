package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"codeberg.org/algorave/relay/internal/access"
	"codeberg.org/algorave/relay/internal/auth"
)

func main() {
	userID := flag.String("user", "", "user id to sign (random when empty)")
	email := flag.String("email", "test@algorave.dev", "email claim")
	fileID := flag.String("file", "", "file to grant access to (needs DATABASE_URL)")
	canEdit := flag.Bool("edit", true, "grant edit access with -file")
	flag.Parse()

	// load environment
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	if *userID == "" {
		*userID = uuid.New().String()
	}

	if *fileID != "" {
		grant(*fileID, *userID, *canEdit)
	}

	// generate JWT token
	token, err := auth.GenerateJWT(*userID, *email)
	if err != nil {
		log.Fatalf("Failed to generate JWT: %v", err)
	}

	fmt.Printf("User ID: %s\n", *userID)
	fmt.Printf("\nTest JWT Token:\n%s\n\n", token)
	fmt.Printf("Export this token for testing:\nexport TEST_TOKEN=\"%s\"\n", token)
}

// adds the user as a collaborator on fileID
func grant(fileID, userID string, canEdit bool) {
	dbConnString := os.Getenv("DATABASE_URL")
	if dbConnString == "" {
		log.Fatal("DATABASE_URL not set, cannot grant file access")
	}

	ctx := context.Background()

	dbPool, err := pgxpool.New(ctx, dbConnString)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	if err := access.NewPostgresStore(dbPool).Grant(ctx, fileID, userID, canEdit); err != nil {
		log.Fatalf("Failed to grant access: %v", err) //nolint:gocritic // exitAfterDefer: one-shot script
	}

	fmt.Printf("Granted %s access to file %s (can_edit=%t)\n", userID, fileID, canEdit)
}
