package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type SchemaVersion string

const (
	SchemaSimple SchemaVersion = "simple"
	SchemaRich   SchemaVersion = "rich"
)

type ValidationPolicy string

const (
	PolicyStrict     ValidationPolicy = "strict"
	PolicyPermissive ValidationPolicy = "permissive"
)

const (
	GeneratorGemini = "gemini"
	GeneratorOpenAI = "openai"

	PlaceSearchKakao   = "kakao"
	PlaceSearchCatalog = "catalog"
)

type ServerConfig struct {
	Port               string
	GinMode            string
	LogLevel           string
	CORSAllowedOrigins []string
}

type StorageConfig struct {
	PostgresURL          string
	MongoURI             string
	MongoDatabase        string
	MongoPlaceCollection string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
}

type AuthConfig struct {
	JWTSecret  string
	JWTTTL     time.Duration
	CookieName string
}

type GeneratorConfig struct {
	Provider      string
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	Timeout       time.Duration
	MaxAttempts   int
	Schema        SchemaVersion
	Region        string
	MinActivities int
	MaxActivities int
}

type GeoConfig struct {
	Provider            string
	KakaoAPIKey         string
	KakaoBaseURL        string
	Timeout             time.Duration
	RPS                 float64
	Burst               int
	ResolveConcurrency  int
	Policy              ValidationPolicy
	MinActivitiesPerDay int
}

// Config is read once at startup and handed to every constructor.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Auth      AuthConfig
	Generator GeneratorConfig
	Geo       GeoConfig
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary lookup function.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	r := reader{lookup: lookup}

	cfg := &Config{
		Server: ServerConfig{
			Port:               r.str("PORT", "8080"),
			GinMode:            r.str("GIN_MODE", "debug"),
			LogLevel:           r.str("LOG_LEVEL", "info"),
			CORSAllowedOrigins: r.list("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Storage: StorageConfig{
			PostgresURL:          r.str("POSTGRES_URL", ""),
			MongoURI:             r.str("MONGODB_URI", "mongodb://localhost:27017"),
			MongoDatabase:        r.str("MONGODB_DATABASE", "tripcanvas"),
			MongoPlaceCollection: r.str("MONGODB_PLACE_COLLECTION", "place"),
			RedisAddr:            r.str("REDIS_ADDR", ""),
			RedisPassword:        r.str("REDIS_PASSWORD", ""),
			RedisDB:              r.integer("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:  r.str("JWT_SECRET", ""),
			JWTTTL:     r.duration("JWT_TTL", 24*time.Hour),
			CookieName: r.str("JWT_COOKIE_NAME", "jwt"),
		},
		Generator: GeneratorConfig{
			Provider:      strings.ToLower(r.str("GENERATOR_PROVIDER", GeneratorGemini)),
			GeminiAPIKey:  r.str("GEMINI_API_KEY", ""),
			GeminiModel:   r.str("GEMINI_MODEL", "gemini-1.5-flash"),
			OpenAIAPIKey:  r.str("OPENAI_API_KEY", ""),
			OpenAIModel:   r.str("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout:       r.duration("GENERATION_TIMEOUT", 60*time.Second),
			MaxAttempts:   r.integer("GENERATION_MAX_ATTEMPTS", 1),
			Schema:        SchemaVersion(strings.ToLower(r.str("ITINERARY_SCHEMA", string(SchemaRich)))),
			Region:        r.str("PLANNER_REGION", "Seoul"),
			MinActivities: r.integer("MIN_ACTIVITIES", 3),
			MaxActivities: r.integer("MAX_ACTIVITIES", 4),
		},
		Geo: GeoConfig{
			Provider:            strings.ToLower(r.str("PLACE_SEARCH_PROVIDER", PlaceSearchKakao)),
			KakaoAPIKey:         r.str("KAKAO_API_KEY", ""),
			KakaoBaseURL:        strings.TrimRight(r.str("KAKAO_BASE_URL", "https://dapi.kakao.com"), "/"),
			Timeout:             r.duration("PLACE_SEARCH_TIMEOUT", 5*time.Second),
			RPS:                 r.float("PLACE_SEARCH_RPS", 10),
			Burst:               r.integer("PLACE_SEARCH_BURST", 5),
			ResolveConcurrency:  r.integer("RESOLVE_CONCURRENCY", 4),
			Policy:              ValidationPolicy(strings.ToLower(r.str("VALIDATION_POLICY", string(PolicyStrict)))),
			MinActivitiesPerDay: r.integer("MIN_ACTIVITIES_PER_DAY", 3),
		},
	}

	if r.err != nil {
		return nil, r.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enums and numeric ranges. Credentials are checked by the
// component that needs them so the CLI can run without a database.
func (c *Config) Validate() error {
	switch c.Generator.Provider {
	case GeneratorGemini, GeneratorOpenAI:
	default:
		return fmt.Errorf("config: unsupported GENERATOR_PROVIDER %q, use 'gemini' or 'openai'", c.Generator.Provider)
	}
	switch c.Generator.Schema {
	case SchemaSimple, SchemaRich:
	default:
		return fmt.Errorf("config: unsupported ITINERARY_SCHEMA %q, use 'simple' or 'rich'", c.Generator.Schema)
	}
	switch c.Geo.Provider {
	case PlaceSearchKakao, PlaceSearchCatalog:
	default:
		return fmt.Errorf("config: unsupported PLACE_SEARCH_PROVIDER %q, use 'kakao' or 'catalog'", c.Geo.Provider)
	}
	switch c.Geo.Policy {
	case PolicyStrict, PolicyPermissive:
	default:
		return fmt.Errorf("config: unsupported VALIDATION_POLICY %q, use 'strict' or 'permissive'", c.Geo.Policy)
	}

	if c.Generator.MaxAttempts < 1 {
		return fmt.Errorf("config: GENERATION_MAX_ATTEMPTS must be at least 1")
	}
	if c.Generator.MinActivities < 1 || c.Generator.MaxActivities < c.Generator.MinActivities {
		return fmt.Errorf("config: MIN_ACTIVITIES/MAX_ACTIVITIES must satisfy 1 <= min <= max")
	}
	if c.Generator.Timeout <= 0 || c.Geo.Timeout <= 0 {
		return fmt.Errorf("config: timeouts must be positive")
	}
	if c.Geo.ResolveConcurrency < 1 {
		return fmt.Errorf("config: RESOLVE_CONCURRENCY must be at least 1")
	}
	if c.Geo.MinActivitiesPerDay < 0 {
		return fmt.Errorf("config: MIN_ACTIVITIES_PER_DAY must not be negative")
	}
	if c.Geo.MinActivitiesPerDay > c.Generator.MaxActivities {
		return fmt.Errorf("config: MIN_ACTIVITIES_PER_DAY (%d) exceeds MAX_ACTIVITIES (%d), strict validation would drop every day",
			c.Geo.MinActivitiesPerDay, c.Generator.MaxActivities)
	}
	if c.Geo.Burst < 1 {
		return fmt.Errorf("config: PLACE_SEARCH_BURST must be at least 1")
	}
	if c.Auth.JWTTTL <= 0 {
		return fmt.Errorf("config: JWT_TTL must be positive")
	}
	return nil
}

// reader keeps the first parse error so Load reports one problem at a time.
type reader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *reader) str(key, defaultValue string) string {
	if value, ok := r.lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func (r *reader) integer(key string, defaultValue int) int {
	raw := r.str(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(key, raw, err)
		return defaultValue
	}
	return v
}

func (r *reader) float(key string, defaultValue float64) float64 {
	raw := r.str(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.fail(key, raw, err)
		return defaultValue
	}
	return v
}

func (r *reader) duration(key string, defaultValue time.Duration) time.Duration {
	raw := r.str(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		r.fail(key, raw, err)
		return defaultValue
	}
	return v
}

func (r *reader) list(key string, defaultValue []string) []string {
	raw := r.str(key, "")
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (r *reader) fail(key, raw string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("config: invalid %s=%q: %w", key, raw, err)
	}
}
