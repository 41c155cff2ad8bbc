package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/labstack/gommon/log"

	"indicacoes/cmd/internal/config"
	"indicacoes/cmd/internal/utils"
)

// Prints a bearer token for the given user type, signed with AUTH_JWT_SECRET.
func main() {
	tipo := flag.String("tipo", "", "user type written to the tipo claim")
	sub := flag.String("sub", "", "token subject")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime")
	flag.Parse()

	if *tipo == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := config.LoadEnv(context.Background()); err != nil {
		log.Fatalf("failed to load environment: %v", err)
	}

	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		log.Fatal("AUTH_JWT_SECRET is not set")
	}

	token, err := utils.IssueToken([]byte(secret), *sub, *tipo, *ttl)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}
	fmt.Println(token)
}
