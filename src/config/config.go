package config

import (
	"fmt"
	"log"
	"os"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

// MustQRSecret returns the QR signing secret. The secret has no default on
// purpose: minting tokens with a guessable key would defeat the whole
// anti-forgery control, so a missing value is fatal.
func MustQRSecret() []byte {
	secret := os.Getenv("QR_SIGNING_SECRET")
	if secret == "" {
		log.Fatal("QR_SIGNING_SECRET is not set; refusing to start without a signing secret")
	}
	return []byte(secret)
}

// QRTokenMaxAge is the validity window applied to per-ticket tokens. Venue
// event tokens carry their own expiry instead.
func QRTokenMaxAge() time.Duration {
	if v := os.Getenv("QR_TOKEN_MAX_AGE"); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
		log.Printf("Invalid QR_TOKEN_MAX_AGE [%s], using default: %s\n", v, err.Error())
	}
	return 365 * 24 * time.Hour
}
