// Package conf holds the process configuration and its loader.
package conf

import "time"

// Bootstrap is the root configuration handed to wire.
type Bootstrap struct {
	Server Server `koanf:"server"`
	Data   Data   `koanf:"data"`
	TMDB   TMDB   `koanf:"tmdb"`
	Auth   Auth   `koanf:"auth"`
	Log    Log    `koanf:"log"`
}

// Server configures the HTTP and gRPC transports.
type Server struct {
	HTTP      HTTP      `koanf:"http"`
	GRPC      GRPC      `koanf:"grpc"`
	RateLimit RateLimit `koanf:"rate_limit"`
}

type HTTP struct {
	Network string        `koanf:"network"`
	Addr    string        `koanf:"addr"`
	Timeout time.Duration `koanf:"timeout"`
}

type GRPC struct {
	Network string        `koanf:"network"`
	Addr    string        `koanf:"addr"`
	Timeout time.Duration `koanf:"timeout"`
}

// RateLimit bounds requests per client IP. Requests <= 0 disables it.
type RateLimit struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

type Data struct {
	Database Database `koanf:"database"`
	Redis    Redis    `koanf:"redis"`
}

// Database selects the gorm dialector. Driver is "sqlite" or "postgres".
type Database struct {
	Driver string `koanf:"driver"`
	Source string `koanf:"source"`
}

// Redis is optional; an empty Addr disables the upstream cache.
type Redis struct {
	Addr         string        `koanf:"addr"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
}

// TMDB configures the movie database client.
type TMDB struct {
	BaseURL           string        `koanf:"base_url"`
	ImageBaseURL      string        `koanf:"image_base_url"`
	APIKey            string        `koanf:"api_key"`
	Token             string        `koanf:"token"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
}

type Auth struct {
	SecretKey string `koanf:"secret_key"`
}

type Log struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the built-in configuration. Secrets are left empty and
// must come from the environment or a config file.
func Default() *Bootstrap {
	return &Bootstrap{
		Server: Server{
			HTTP: HTTP{Network: "tcp", Addr: ":8000", Timeout: 30 * time.Second},
			GRPC: GRPC{Network: "tcp", Addr: ":9000", Timeout: 5 * time.Second},
			RateLimit: RateLimit{
				Requests: 120,
				Window:   time.Minute,
			},
		},
		Data: Data{
			Database: Database{Driver: "sqlite", Source: "top_movies.db"},
			Redis: Redis{
				ReadTimeout:  200 * time.Millisecond,
				WriteTimeout: 200 * time.Millisecond,
				CacheTTL:     15 * time.Minute,
			},
		},
		TMDB: TMDB{
			BaseURL:           "https://api.themoviedb.org/3",
			ImageBaseURL:      "https://image.tmdb.org/t/p/w300",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 20,
		},
		Log: Log{Level: "info", Format: "json"},
	}
}
