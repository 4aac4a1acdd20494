package conf

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar names the environment variable holding an optional YAML config path.
const PathEnvVar = "MOVIERANKER_CONFIG"

// envMappings maps environment variables onto koanf paths. Variables not
// listed here are ignored.
var envMappings = map[string]string{
	"api_key":    "tmdb.api_key",
	"token":      "tmdb.token",
	"secret_key": "auth.secret_key",

	"movieranker_http_addr":         "server.http.addr",
	"movieranker_http_timeout":      "server.http.timeout",
	"movieranker_grpc_addr":         "server.grpc.addr",
	"movieranker_rate_limit":        "server.rate_limit.requests",
	"movieranker_rate_limit_window": "server.rate_limit.window",
	"movieranker_db_driver":         "data.database.driver",
	"movieranker_db_source":         "data.database.source",
	"movieranker_redis_addr":        "data.redis.addr",
	"movieranker_redis_password":    "data.redis.password",
	"movieranker_redis_db":          "data.redis.db",
	"movieranker_cache_ttl":         "data.redis.cache_ttl",
	"movieranker_tmdb_base_url":     "tmdb.base_url",
	"movieranker_tmdb_image_url":    "tmdb.image_base_url",
	"movieranker_tmdb_timeout":      "tmdb.timeout",
	"movieranker_tmdb_rps":          "tmdb.requests_per_second",
	"movieranker_log_level":         "log.level",
	"movieranker_log_format":        "log.format",
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// Load builds a Bootstrap by layering defaults, an optional YAML file and
// the environment, then validates it. path may be empty, in which case
// MOVIERANKER_CONFIG is consulted.
func Load(path string) (*Bootstrap, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("%w: defaults: %v", ErrInvalidConfig, err)
	}

	if path == "" {
		path = os.Getenv(PathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: config file %s: %v", ErrInvalidConfig, path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("%w: environment: %v", ErrInvalidConfig, err)
	}

	bc := &Bootstrap{}
	if err := k.Unmarshal("", bc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := bc.Validate(); err != nil {
		return nil, err
	}
	return bc, nil
}

// Validate reports missing secrets and unusable settings.
func (bc *Bootstrap) Validate() error {
	var missing []string
	if bc.TMDB.APIKey == "" {
		missing = append(missing, "API_KEY")
	}
	if bc.TMDB.Token == "" {
		missing = append(missing, "TOKEN")
	}
	if bc.Auth.SecretKey == "" {
		missing = append(missing, "SECRET_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}

	switch bc.Data.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: unsupported database driver %q", ErrInvalidConfig, bc.Data.Database.Driver)
	}
	if bc.Data.Database.Source == "" {
		return fmt.Errorf("%w: data.database.source must not be empty", ErrInvalidConfig)
	}
	if bc.Server.HTTP.Addr == "" {
		return fmt.Errorf("%w: server.http.addr must not be empty", ErrInvalidConfig)
	}
	if bc.TMDB.BaseURL == "" || bc.TMDB.ImageBaseURL == "" {
		return fmt.Errorf("%w: tmdb urls must not be empty", ErrInvalidConfig)
	}
	return nil
}
