package config

import (
	"fmt"
	"log"
)

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

// Validate reports the first missing required setting.
func (c Config) Validate() error {
	switch {
	case c.DatabaseURL == "":
		return fmt.Errorf("missing required env DATABASE_URL")
	case len(c.JWTAccessSecret) == 0:
		return fmt.Errorf("missing required env JWT_SECRET")
	case len(c.JWTRefreshSecret) == 0:
		return fmt.Errorf("missing required env JWT_REFRESH_SECRET")
	}
	return nil
}
