package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	sheets "google.golang.org/api/sheets/v4"
)

// One-shot OAuth2 bootstrap: exchanges an authorization code for a
// token file the bot can use to write the published-view spreadsheet.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: sheets-auth-helper <credentials.json> [token.json]")
	}

	credentialsFile := os.Args[1]
	tokenFile := "token.json"
	if len(os.Args) > 2 {
		tokenFile = os.Args[2]
	}

	credentialsData, err := os.ReadFile(credentialsFile)
	if err != nil {
		log.Fatalf("Failed to read credentials file: %v", err)
	}

	config, err := google.ConfigFromJSON(credentialsData, sheets.SpreadsheetsScope)
	if err != nil {
		log.Fatalf("Failed to parse credentials: %v", err)
	}

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)

	fmt.Println("Sheets OAuth2 Authorization Helper")
	fmt.Println("1. Open this URL in your browser:")
	fmt.Printf("   %s\n", authURL)
	fmt.Println("2. Authorize the application")
	fmt.Print("3. Enter the authorization code: ")

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		log.Fatalf("Failed to read authorization code: %v", err)
	}

	token, err := config.Exchange(context.Background(), authCode)
	if err != nil {
		log.Fatalf("Failed to exchange code for token: %v", err)
	}

	tokenData, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal token: %v", err)
	}

	if err := os.WriteFile(tokenFile, tokenData, 0600); err != nil {
		log.Fatalf("Failed to write token file: %v", err)
	}

	fmt.Printf("Token written to %s\n", tokenFile)
	if token.RefreshToken == "" {
		fmt.Println("Warning: no refresh token returned; the token will expire")
	}
}
