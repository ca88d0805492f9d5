package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
	// PublicURL prefixes share links handed to the first participant.
	PublicURL string
	// Mode is RW, or RO to reject every write while a replica drains.
	Mode string
}

type RedisCache struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type Session struct {
	// Store is one of memory, redis, postgres.
	Store       string
	TTL         time.Duration
	MaxRetries  int
	RedisPrefix string
}

type Catalog struct {
	// Source is one of postgres, csv.
	Source          string
	CSVPath         string
	RefreshInterval time.Duration
}

type Broadcast struct {
	// Mode is local for a single instance, redis to fan out across instances.
	Mode         string
	RedisChannel string
}

type Config struct {
	HTTP      HTTPServer
	Redis     RedisCache
	Postgres  Postgres
	Session   Session
	Catalog   Catalog
	Broadcast Broadcast
}

const logtag = "[config]"

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"

	SourcePostgres = "postgres"
	SourceCSV      = "csv"

	BroadcastLocal = "local"
	BroadcastRedis = "redis"

	ModeReadWrite = "RW"
	ModeReadOnly  = "RO"
)

func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%s %v", logtag, err)
	}

	log.Printf("%s backend config : %+v\n", logtag, cfg)
	return cfg
}

// FromEnv reads the process environment only.
func FromEnv() *Config {
	return &Config{
		HTTP:      *newHTTP(),
		Redis:     *newRedis(),
		Postgres:  *newPostgres(),
		Session:   *newSession(),
		Catalog:   *newCatalog(),
		Broadcast: *newBroadcast(),
	}
}

func (c *Config) Validate() error {
	switch c.HTTP.Mode {
	case ModeReadWrite, ModeReadOnly:
	default:
		return fmt.Errorf("unknown http mode %q", c.HTTP.Mode)
	}
	switch c.Session.Store {
	case StoreMemory, StoreRedis, StorePostgres:
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	switch c.Catalog.Source {
	case SourcePostgres:
	case SourceCSV:
		if c.Catalog.CSVPath == "" {
			return fmt.Errorf("catalog source csv needs CATALOG_CSV_PATH")
		}
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}
	switch c.Broadcast.Mode {
	case BroadcastLocal, BroadcastRedis:
	default:
		return fmt.Errorf("unknown broadcast mode %q", c.Broadcast.Mode)
	}
	if c.Session.MaxRetries <= 0 {
		return fmt.Errorf("session max retries must be positive, got %d", c.Session.MaxRetries)
	}
	return nil
}

// NeedsRedis reports whether any component talks to redis.
func (c *Config) NeedsRedis() bool {
	return c.Session.Store == StoreRedis || c.Broadcast.Mode == BroadcastRedis
}

// NeedsPostgres reports whether any component talks to postgres.
func (c *Config) NeedsPostgres() bool {
	return c.Session.Store == StorePostgres || c.Catalog.Source == SourcePostgres
}

func newHTTP() *HTTPServer {
	port := getenv("HTTP_PORT", "8080")
	return &HTTPServer{
		Port:      port,
		Host:      getenv("HTTP_HOST", "localhost"),
		PublicURL: getenv("HTTP_PUBLIC_URL", "http://localhost:"+port),
		Mode:      getenv("HTTP_MODE", ModeReadWrite),
	}
}

func newRedis() *RedisCache {
	return &RedisCache{
		Port:     getenv("REDIS_PORT", "6379"),
		Host:     getenv("REDIS_HOST", "redis"),
		Password: getenv("REDIS_PASSWORD", "shared"),
		DB:       getenvInt("REDIS_DB", 0),
	}
}

func newPostgres() *Postgres {
	return &Postgres{
		Host:     getenv("DB_HOST", "localhost"),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", "admin"),
		Password: getenv("DB_PASSWORD", "shared"),
		DBName:   getenv("DB_NAME", "test"),
		SSLMode:  getenv("DB_SSLMODE", "disable"),
	}
}

func newSession() *Session {
	return &Session{
		Store:       getenv("SESSION_STORE", StoreMemory),
		TTL:         getenvDuration("SESSION_TTL", 24*time.Hour),
		MaxRetries:  getenvInt("SESSION_MAX_RETRIES", 5),
		RedisPrefix: getenv("SESSION_REDIS_PREFIX", "duo_session"),
	}
}

func newCatalog() *Catalog {
	return &Catalog{
		Source:          getenv("CATALOG_SOURCE", SourcePostgres),
		CSVPath:         getenv("CATALOG_CSV_PATH", ""),
		RefreshInterval: getenvDuration("CATALOG_REFRESH_INTERVAL", 10*time.Minute),
	}
}

func newBroadcast() *Broadcast {
	return &Broadcast{
		Mode:         getenv("BROADCAST_MODE", BroadcastLocal),
		RedisChannel: getenv("BROADCAST_REDIS_CHANNEL", "duo_matches"),
	}
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	fmt.Printf("%s %s = %s\n", logtag, key, val)
	return val
}

func getenvInt(key string, defaultValue int) int {
	raw := getenv(key, strconv.Itoa(defaultValue))
	val, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Printf("%s %s is not an int (%q). Using default value %d\n", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return val
}

func getenvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getenv(key, defaultValue.String())
	val, err := time.ParseDuration(raw)
	if err != nil {
		fmt.Printf("%s %s is not a duration (%q). Using default value %s\n", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return val
}
