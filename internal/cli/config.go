package cli

import (
	"os"

	"github.com/google/uuid"
)

// Environment defaults; flags override these.
const (
	defaultServerURL = "ws://localhost:8000"
	envServerURL     = "YATRIGUARD_SERVER_URL"
	envUserID        = "YATRIGUARD_USER_ID"
)

func serverURLFromEnv() string {
	return getEnv(envServerURL, defaultServerURL)
}

func userIDFromEnv() string {
	return getEnv(envUserID, "traveler-"+uuid.NewString()[:8])
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
