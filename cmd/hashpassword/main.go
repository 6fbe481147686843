// cmd/hashpassword/main.go prints a bcrypt hash for seeding or resetting an
// account password by hand.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/your-org/mobilestore-api/internal/config"
	"github.com/your-org/mobilestore-api/internal/pkg/auth"
)

func main() {
	if len(os.Args) < 2 {
		logrus.Fatal("Usage: hashpassword <password>")
	}
	password := os.Args[1]

	cost := config.DefaultBcryptCost
	if raw := os.Getenv("BCRYPT_COST"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			logrus.Fatalf("Invalid BCRYPT_COST %q: %v", raw, err)
		}
		cost = parsed
	}

	passwords := auth.NewPasswordManager(&config.Config{Security: config.SecurityConfig{BcryptCost: cost}})

	hash, err := passwords.HashPassword(password)
	if err != nil {
		logrus.Fatalf("Error generating hash: %v", err)
	}

	if err := passwords.VerifyPassword(password, hash); err != nil {
		logrus.Fatalf("Hash verification failed: %v", err)
	}

	fmt.Println(hash)
}
