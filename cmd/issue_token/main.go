// Command issue_token mints a signed access token for a field device, driver or admin.
//
//	go run ./cmd/issue_token -subject device-shuttle-12 -role device -ttl 720h
//
// JWT_SECRET and JWT_ISSUER are read the same way the server reads them.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/SscSPs/campus_fare_ledger/internal/middleware"
	"github.com/SscSPs/campus_fare_ledger/internal/platform/config"
	"github.com/SscSPs/campus_fare_ledger/internal/utils"
)

func main() {
	subject := flag.String("subject", "", "token subject: device ID, driver ID or admin user ID")
	role := flag.String("role", middleware.RoleDevice, "one of admin, driver, device")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *subject == "" {
		logger.Error("-subject is required")
		os.Exit(2)
	}
	if !slices.Contains([]string{middleware.RoleAdmin, middleware.RoleDriver, middleware.RoleDevice}, *role) {
		logger.Error("Unknown role", slog.String("role", *role))
		os.Exit(2)
	}

	secret, issuer := config.LoadJWTConfig()
	token, err := utils.GenerateJWT(*subject, *role, secret, *ttl, issuer)
	if err != nil {
		logger.Error("Failed to sign token", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(token)
}
