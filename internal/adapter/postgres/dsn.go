package postgres

import (
	"fmt"
	"net/url"

	"nbrb-rates/pkg/config"
)

func BuildDSN(cfg config.PostgresConfig) string {
	return buildURL("postgres", cfg)
}

// BuildMigrateDSN points golang-migrate at its pgx/v5 driver.
func BuildMigrateDSN(cfg config.PostgresConfig) string {
	return buildURL("pgx5", cfg)
}

func buildURL(scheme string, cfg config.PostgresConfig) string {
	return fmt.Sprintf(
		"%s://%s@%s:%s/%s?sslmode=%s",
		scheme,
		url.UserPassword(cfg.User, cfg.Password).String(),
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.SSLMode,
	)
}
