// Command verify marks an account as email-verified.
//
// Verification itself happens outside the server (a mail link, or an
// admin checking a student roster); this tool is the hook that records
// the outcome:
//
//	go run ./cmd/verify alice@mahindrauniversity.edu.in
//
// Until this flag is set, the account exists but cannot log in.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/muhub/projecthub/internal/repository/sqlite"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: verify <email>")
		os.Exit(2)
	}
	email := strings.ToLower(strings.TrimSpace(os.Args[1]))

	// Same .env the server reads, so both point at the same database.
	_ = godotenv.Load()
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/projecthub.db"
	}

	db, err := sqlite.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verify: opening database %s: %v\n", dbPath, err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := db.Users().GetByEmail(ctx, email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verify: %v\n", err)
		os.Exit(1)
	}
	if user.IsVerified {
		fmt.Printf("%s is already verified\n", email)
		return
	}

	if err := db.Users().MarkVerified(ctx, user.Email); err != nil {
		fmt.Fprintf(os.Stderr, "verify: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s verified\n", email)
}
