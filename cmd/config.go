package cmd

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	LogLevel   string
	JWTSecret  string

	RedisAddr             string
	KafkaBrokers          []string
	KafkaOrderEventsTopic string
	TrustedProxies        []*net.IPNet

	InventoryStrict        bool
	WSConnectLimit         int
	WSConnectWindow        time.Duration
	WSAuthLimitMultiplier  int
	DriverSnapshotInterval time.Duration
	DispatchJobEnabled     bool
}

// LoadConfig reads the configuration through getenv, falling back to
// defaults for everything except JWT_SECRET.
func LoadConfig(getenv func(string) string) (Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	config := Config{
		HTTPPort:              env("HTTP_PORT", "8080"),
		DBHost:                env("DB_HOST", "localhost"),
		DBPort:                env("DB_PORT", "5432"),
		DBUser:                env("DB_USER", "postgres"),
		DBPassword:            env("DB_PASSWORD", ""),
		DBName:                env("DB_NAME", "fulfillment"),
		DBSslMode:             env("DB_SSLMODE", "disable"),
		LogLevel:              env("LOG_LEVEL", "info"),
		JWTSecret:             env("JWT_SECRET", ""),
		RedisAddr:             env("REDIS_ADDR", ""),
		KafkaBrokers:          splitList(env("KAFKA_BROKERS", "")),
		KafkaOrderEventsTopic: env("KAFKA_ORDER_EVENTS_TOPIC", "order-events"),
	}
	if config.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	var err error
	if config.TrustedProxies, err = parseCIDRs(splitList(env("TRUSTED_PROXIES", ""))); err != nil {
		return Config{}, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	if config.InventoryStrict, err = strconv.ParseBool(env("INVENTORY_STRICT", "false")); err != nil {
		return Config{}, fmt.Errorf("INVENTORY_STRICT: %w", err)
	}
	if config.DispatchJobEnabled, err = strconv.ParseBool(env("DISPATCH_JOB_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("DISPATCH_JOB_ENABLED: %w", err)
	}
	if config.WSConnectLimit, err = positiveInt(env("WS_CONNECT_LIMIT", "10")); err != nil {
		return Config{}, fmt.Errorf("WS_CONNECT_LIMIT: %w", err)
	}
	if config.WSAuthLimitMultiplier, err = positiveInt(env("WS_AUTH_LIMIT_MULTIPLIER", "3")); err != nil {
		return Config{}, fmt.Errorf("WS_AUTH_LIMIT_MULTIPLIER: %w", err)
	}
	if config.WSConnectWindow, err = positiveDuration(env("WS_CONNECT_WINDOW", "60s")); err != nil {
		return Config{}, fmt.Errorf("WS_CONNECT_WINDOW: %w", err)
	}
	if config.DriverSnapshotInterval, err = positiveDuration(env("DRIVER_SNAPSHOT_INTERVAL", "30s")); err != nil {
		return Config{}, fmt.Errorf("DRIVER_SNAPSHOT_INTERVAL: %w", err)
	}

	return config, nil
}

func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}

// IPExtractor resolves the client address used for per-IP limits. Forwarding
// headers are honoured only when they arrive through a trusted proxy.
func (c Config) IPExtractor() echo.IPExtractor {
	if len(c.TrustedProxies) == 0 {
		return echo.ExtractIPDirect()
	}
	options := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, proxy := range c.TrustedProxies {
		options = append(options, echo.TrustIPRange(proxy))
	}
	return echo.ExtractIPFromXFFHeader(options...)
}

func parseCIDRs(values []string) ([]*net.IPNet, error) {
	var nets []*net.IPNet
	for _, value := range values {
		_, n, err := net.ParseCIDR(value)
		if err != nil {
			return nil, err
		}
		nets = append(nets, n)
	}
	return nets, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func positiveInt(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("%d is not positive", n)
	}
	return n, nil
}

func positiveDuration(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s is not positive", d)
	}
	return d, nil
}
