package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	JWTSecret string

	// settlement ledger
	EthRPCURL       string
	ContractAddress string
	PrivateKey      string
	ChainID         int64
	// upper bound on any single settlement call
	SettlementTimeout time.Duration

	CoinGeckoURL string
	RateCacheTTL time.Duration

	DetectorInterval time.Duration

	IdempTTLSecs int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "p2plend"),
		MySQLUser: getenv("MYSQL_USER", "p2plend"),
		MySQLPass: getenv("MYSQL_PASS", "p2plend"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:   getint("REDIS_DB", 0),

		JWTSecret: getenv("JWT_SECRET", ""),

		EthRPCURL:         getenv("ETHEREUM_RPC_URL", "http://localhost:8545"),
		ContractAddress:   getenv("CONTRACT_ADDRESS", ""),
		PrivateKey:        getenv("PRIVATE_KEY", ""),
		ChainID:           int64(getint("CHAIN_ID", 1337)),
		SettlementTimeout: time.Duration(getint("SETTLEMENT_TIMEOUT_SECONDS", 90)) * time.Second,

		CoinGeckoURL: getenv("COINGECKO_API_URL", "https://api.coingecko.com/api/v3"),
		RateCacheTTL: time.Duration(getint("RATE_CACHE_TTL_SECONDS", 60)) * time.Second,

		DetectorInterval: time.Duration(getint("DETECTOR_INTERVAL_SECONDS", 86400)) * time.Second,

		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	if c.ContractAddress == "" || c.PrivateKey == "" {
		return errors.New("missing settlement config (CONTRACT_ADDRESS/PRIVATE_KEY)")
	}
	if c.DetectorInterval <= 0 {
		return errors.New("DETECTOR_INTERVAL_SECONDS must be positive")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
