package config

type Config struct {
	JWTSecret          string
	Environment        string
	Port               string
	DatabaseURL        string
	RedisURL           string
	AllowedOrigins     []string
	HandshakeRateLimit string
}

// command-line overrides for the server binary
type Flags struct {
	Port               string
	HandshakeRateLimit string
}
