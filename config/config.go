package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends selectable via store.backend.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Escrow   EscrowConfig   `mapstructure:"escrow"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// StoreConfig selects the deposit store backend. The file backend is the
// canonical one; postgres and redis reuse the database/redis sections below.
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // file, postgres, redis
	Path    string `mapstructure:"path"`    // file backend document path
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LedgerConfig describes the chain endpoint, the operator identity and the
// transaction policy. PrivateKey is a hex-encoded secp256k1 key; JWTSecret
// enables HS256 bearer auth on the RPC connection when set.
type LedgerConfig struct {
	RPCURL          string        `mapstructure:"rpc_url"`
	ChainID         int64         `mapstructure:"chain_id"`
	EscrowAddress   string        `mapstructure:"escrow_address"`
	FeeTokenAddress string        `mapstructure:"fee_token_address"`
	PrivateKey      string        `mapstructure:"private_key"`
	JWTSecret       string        `mapstructure:"jwt_secret"`
	GasLimit        uint64        `mapstructure:"gas_limit"`
	ConfirmTimeout  time.Duration `mapstructure:"confirm_timeout"`
}

// EscrowConfig carries protocol-level settings: the allowed deposit
// denominations and the default withdrawal recipient.
type EscrowConfig struct {
	Denominations []string `mapstructure:"denominations"`
	Recipient     string   `mapstructure:"recipient"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: ESCROW_.
// Nested keys use underscore: ESCROW_LEDGER_RPC_URL, ESCROW_STORE_BACKEND, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("store.backend", BackendFile)
	v.SetDefault("store.path", "deposits.json")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "hashlock_escrow")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("ledger.rpc_url", "http://localhost:8545")
	v.SetDefault("ledger.chain_id", 1337)
	v.SetDefault("ledger.escrow_address", "")
	v.SetDefault("ledger.fee_token_address", "")
	v.SetDefault("ledger.private_key", "")
	v.SetDefault("ledger.jwt_secret", "")
	v.SetDefault("ledger.gas_limit", 300000)
	v.SetDefault("ledger.confirm_timeout", "90s")
	v.SetDefault("escrow.denominations", []string{})
	v.SetDefault("escrow.recipient", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: ESCROW_LEDGER_RPC_URL -> ledger.rpc_url
	v.SetEnvPrefix("ESCROW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
