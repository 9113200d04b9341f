// Package main provides a CLI tool for generating credentials for the
// decision API. Service tokens minted with the dev signing key will NOT work
// against a production deployment.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"decisio/internal/token"
	"decisio/pkg/secrets"
)

const (
	// Dev signing key - matches config.go when DECISIO_JWT_SIGNING_KEY is not set
	devSigningKey = "dev-secret-key-change-in-production"

	defaultEnv      = "development"
	defaultTokenTTL = 15 * time.Minute
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Type      string            `json:"type"`
	ExpiresIn string            `json:"expires_in,omitempty"`
	Hash      string            `json:"hash,omitempty"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	serviceCmd := flag.NewFlagSet("service", flag.ExitOnError)
	adminCmd := flag.NewFlagSet("admin", flag.ExitOnError)

	// Service token flags
	serviceName := serviceCmd.String("name", "loan-frontend", "Calling service name (token subject)")
	serviceKey := serviceCmd.String("key", "", "Signing key. Dev key if empty.")
	serviceEnv := serviceCmd.String("env", defaultEnv, "Environment claim")
	serviceTTL := serviceCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	serviceJSON := serviceCmd.Bool("json", false, "Output as JSON")

	// Admin token flags
	adminToken := adminCmd.String("token", "", "Plaintext to hash. Generated if empty.")
	adminJSON := adminCmd.Bool("json", false, "Output as JSON")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "service":
		serviceCmd.Parse(os.Args[2:])
		generateServiceToken(*serviceName, *serviceKey, *serviceEnv, *serviceTTL, *serviceJSON)
	case "admin":
		adminCmd.Parse(os.Args[2:])
		generateAdminToken(*adminToken, *adminJSON)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Generate credentials for the decision API

WARNING: Tokens minted with the dev signing key will NOT work in production.
         Only use for local development and testing.

Usage:
  tokengen <command> [flags]

Commands:
  service   Mint a service token (JWT) for calling the decision API
  admin     Generate an admin token and the bcrypt hash to configure

Examples:
  # Mint a service token with defaults
  tokengen service

  # Mint a token for a named caller with a custom TTL
  tokengen service -name partner-portal -ttl 1h

  # Generate a fresh admin token and its hash
  tokengen admin

  # Hash an existing admin token
  tokengen admin -token my-ops-secret

  # Output as JSON
  tokengen service -json

Use "tokengen <command> -h" for more information about a command.`)
}

func generateServiceToken(name, key, env string, ttl time.Duration, jsonOutput bool) {
	keyType := "custom"
	if key == "" {
		key = devSigningKey
		keyType = "dev"
	}

	svc := token.New(key, env, ttl)
	signed, err := svc.Mint(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error minting token: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(tokenOutput{
			Token:     signed,
			Type:      "service_token",
			ExpiresIn: ttl.String(),
			Usage: map[string]string{
				"header":      "Authorization: Bearer <token>",
				"signing_key": keyType,
			},
		})
		return
	}

	fmt.Println("Service Token (JWT)")
	fmt.Println("===================")
	fmt.Printf("Signing Key: %s\n", keyType)
	fmt.Printf("Service:     %s\n", name)
	fmt.Printf("Environment: %s\n", env)
	fmt.Printf("Expires In:  %s\n", ttl)
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(signed)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/api/v1/decisions")
}

func generateAdminToken(plaintext string, jsonOutput bool) {
	var err error
	if plaintext == "" {
		plaintext, err = secrets.Generate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
			os.Exit(1)
		}
	}

	hash, err := secrets.Hash(plaintext)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing token: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(tokenOutput{
			Token: plaintext,
			Type:  "admin_token",
			Hash:  hash,
			Usage: map[string]string{
				"header": "X-Admin-Token: <token>",
				"config": "DECISIO_ADMIN_TOKEN_HASH=<hash>",
			},
		})
		return
	}

	fmt.Println("Admin Token")
	fmt.Println("===========")
	fmt.Printf("Token: %s\n", plaintext)
	fmt.Printf("Hash:  %s\n", hash)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  Configure the server:  DECISIO_ADMIN_TOKEN_HASH='" + hash + "'")
	fmt.Println("  Call the ops surface:  curl -X POST -H \"X-Admin-Token: " + plaintext + "\" http://localhost:9090/ops/registry/cache/purge")
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
