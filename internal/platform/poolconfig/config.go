// Package poolconfig is the viper-backed GlobalConfig collaborator
// (spec.md section 6) that pool.Pool consults for fee-rate ceilings,
// role checks and the package-version gate. Structure adapted from
// the teacher's internal/platform/config.Config: a mapstructure'd
// tree loaded from YAML plus environment overrides, with defaults and
// validation set up the same way.
package poolconfig

import (
	"context"
	"fmt"
	"math/big"

	"github.com/spf13/viper"

	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
	"github.com/luck-28/FullSail-CLMM-SC/pool"
)

// Config is the pool.Config implementation, plus the ambient sections
// (observability, AWS, Redis, cache sizing, HTTP) a running poolsim
// process needs but spec.md's Config interface doesn't itself require.
type Config struct {
	Fees          FeesConfig          `mapstructure:"fees"`
	Version       uint64              `mapstructure:"package_version"`
	Roles         RolesConfig         `mapstructure:"roles"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	AWS           AWSConfig           `mapstructure:"aws"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Cache         CacheConfig         `mapstructure:"cache"`
	HTTP          HTTPConfig          `mapstructure:"http"`
}

// AWSConfig configures the SNS event sink.
type AWSConfig struct {
	Region      string `mapstructure:"region"`
	Endpoint    string `mapstructure:"endpoint"`
	SNSTopicARN string `mapstructure:"sns_topic_arn"`
}

// RedisConfig configures the quotecache L2 layer.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig sizes the quotecache L1 layer.
type CacheConfig struct {
	L1MaxSize int `mapstructure:"l1_max_size"`
}

// HTTPConfig configures the health/metrics server.
type HTTPConfig struct {
	Port int `mapstructure:"port"`
}

// FeesConfig holds the rate ceilings and denominators spec.md section 4
// parameterizes the fee split by.
type FeesConfig struct {
	ProtocolFeeRate               uint64 `mapstructure:"protocol_fee_rate"`
	ProtocolFeeRateDenom          uint64 `mapstructure:"protocol_fee_rate_denom"`
	DefaultUnstakedFeeRate        uint64 `mapstructure:"default_unstaked_fee_rate"`
	UnstakedLiquidityFeeRateDenom uint64 `mapstructure:"unstaked_liquidity_fee_rate_denom"`
	MaxFeeRate                    uint64 `mapstructure:"max_fee_rate"`
	MaxUnstakedFeeRate            uint64 `mapstructure:"max_unstaked_fee_rate"`
	// MaxGaugeEmissionRate is a decimal string since a u128 Q64.64 value
	// doesn't round-trip through mapstructure's numeric types cleanly.
	MaxGaugeEmissionRate string `mapstructure:"max_gauge_emission_rate"`
}

// RolesConfig maps role names to the set of principals allowed to hold
// them, the simplest possible stand-in for an on-chain capability/ACL
// check (spec.md's CheckRole is explicitly out of scope to implement
// for real).
type RolesConfig struct {
	Holders map[string][]string `mapstructure:"holders"`
}

// ObservabilityConfig mirrors the teacher's logging/metrics sections.
type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// principalKey is the context key callers use to identify the caller
// for CheckRole.
type principalKey struct{}

// WithPrincipal attaches the calling principal's identifier to ctx for
// CheckRole to consult.
func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// Load reads configuration from configPath (or ./config.yaml / ./config/
// if empty) plus environment variables, the same precedence order as
// the teacher's config.Load.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("fees.protocol_fee_rate", 2000)
	v.SetDefault("fees.protocol_fee_rate_denom", 10000)
	v.SetDefault("fees.default_unstaked_fee_rate", 5000)
	v.SetDefault("fees.unstaked_liquidity_fee_rate_denom", 10000)
	v.SetDefault("fees.max_fee_rate", 200000)
	v.SetDefault("fees.max_unstaked_fee_rate", 10000)
	// 10_000 tokens/sec in Q64.64: 10000 << 64, decimal.
	v.SetDefault("fees.max_gauge_emission_rate", "184467440737095516160000")
	v.SetDefault("package_version", 1)
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.service_name", "clmm-pool")
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.l1_max_size", 1000)
	v.SetDefault("http.port", 8080)
}

// Validate checks the loaded configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Fees.ProtocolFeeRateDenom == 0 || c.Fees.UnstakedLiquidityFeeRateDenom == 0 {
		return fmt.Errorf("fee rate denominators must be non-zero")
	}
	if c.Fees.ProtocolFeeRate > c.Fees.ProtocolFeeRateDenom {
		return fmt.Errorf("protocol_fee_rate exceeds its denominator")
	}
	if c.Fees.DefaultUnstakedFeeRate > c.Fees.UnstakedLiquidityFeeRateDenom {
		return fmt.Errorf("default_unstaked_fee_rate exceeds its denominator")
	}
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Observability.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Observability.Logging.Level)
	}
	return nil
}

var _ pool.Config = (*Config)(nil)

func (c *Config) ProtocolFeeRate() uint64               { return c.Fees.ProtocolFeeRate }
func (c *Config) ProtocolFeeRateDenom() uint64           { return c.Fees.ProtocolFeeRateDenom }
func (c *Config) DefaultUnstakedFeeRate() uint64         { return c.Fees.DefaultUnstakedFeeRate }
func (c *Config) UnstakedLiquidityFeeRateDenom() uint64  { return c.Fees.UnstakedLiquidityFeeRateDenom }
func (c *Config) MaxFeeRate() uint64                     { return c.Fees.MaxFeeRate }
func (c *Config) MaxUnstakedFeeRate() uint64             { return c.Fees.MaxUnstakedFeeRate }
func (c *Config) PackageVersion() uint64                 { return c.Version }

// MaxGaugeEmissionRate parses the configured decimal string into a
// u128, defaulting to zero (reject every sync/update) if the value is
// missing or malformed rather than silently allowing an unbounded
// rate.
func (c *Config) MaxGaugeEmissionRate() u128.U128 {
	v, ok := new(big.Int).SetString(c.Fees.MaxGaugeEmissionRate, 10)
	if !ok {
		return u128.Zero
	}
	return u128.FromBig(v)
}

// CheckRole looks up the calling principal (attached via WithPrincipal)
// against the configured holder list for role.
func (c *Config) CheckRole(ctx context.Context, role string) error {
	principal, _ := ctx.Value(principalKey{}).(string)
	holders := c.Roles.Holders[role]
	for _, h := range holders {
		if h == principal {
			return nil
		}
	}
	return fmt.Errorf("principal %q does not hold role %q", principal, role)
}
