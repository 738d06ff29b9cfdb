// Command useradm creates a user account directly against the database,
// for operators bootstrapping an installation without the HTTP API.
//
// Usage:
//
//	useradm -username alice -email a@example.com [-d <dsn>]
//
// The password is prompted for on the terminal without echo.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/dmitrijs2005/filevault/internal/server/auth"
	"github.com/dmitrijs2005/filevault/internal/server/config"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filevault/internal/server/services"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func getPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func main() {

	cfg := &config.Config{}
	cfg.LoadDefaults()

	username := flag.String("username", "", "username of the new account")
	email := flag.String("email", "", "email of the new account")
	dsn := flag.String("d", cfg.DatabaseDSN, "database DSN")
	flag.Parse()

	if *username == "" || *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	password, err := getPassword("Enter password: ")
	if err != nil {
		log.Fatalf("reading password: %v", err)
	}

	confirm, err := getPassword("Confirm password: ")
	if err != nil {
		log.Fatalf("reading password: %v", err)
	}

	if password != confirm {
		log.Fatal("passwords do not match")
	}

	rm, err := repomanager.NewPostgresRepositoryManager(*dsn)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	tokens := auth.NewTokenService([]byte(cfg.SecretKey), cfg.TokenIssuer, cfg.TokenAudience, cfg.TokenValidityDuration)
	us := services.NewUserService(rm.Users(), tokens)

	id, err := us.Register(context.Background(), *username, *email, password)
	if err != nil {
		log.Fatalf("creating user: %v", err)
	}

	fmt.Printf("user %q created with id %d\n", *username, id)
}
