package config

import "os"

// parseEnv overlays values from environment variables. Variable names match
// the ones the web deployment already uses (.env files are loaded by main
// via godotenv before this runs).
func parseEnv(config *Config) {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		config.EndpointAddrHTTP = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("ACCESS_TOKEN_SECRET"); v != "" {
		config.AccessTokenSecret = v
	}
	if v := os.Getenv("REFRESH_TOKEN_SECRET"); v != "" {
		config.RefreshTokenSecret = v
	}
	if v := os.Getenv("SERVER_PEPPER"); v != "" {
		config.Pepper = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		config.CORSAllowedOrigins = splitOrigins(v)
	}
}
