package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderAWSS3        = "aws-s3"
	ProviderCloudflareR2 = "cloudflare-r2"
)

// TokenTTL is the validity window of issued identity tokens.
const TokenTTL = 7 * 24 * time.Hour

// Config holds process-wide settings, loaded once at startup.
type Config struct {
	Port      string
	Env       string // dev | prod
	DBPath    string
	JWTSecret string

	// BootstrapAdmin enables the first-run admin account when no
	// admin-role user exists yet. Forced off in prod unless set
	// explicitly.
	BootstrapAdmin bool

	Storage StorageConfig
}

// StorageConfig selects and parameterizes the object-storage backend.
type StorageConfig struct {
	Provider string // aws-s3 | cloudflare-r2

	AWSRegion          string
	AWSBucket          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	R2AccountID       string
	R2Bucket          string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2CustomDomain    string
}

func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// Load reads configuration from the environment with development
// defaults. The JWT secret default exists only so dev boots; override
// it anywhere that matters.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("DB_PATH", "imageshare.db")
	v.SetDefault("JWT_SECRET", "your-secret-key-change-this-in-production")
	v.SetDefault("STORAGE_PROVIDER", ProviderAWSS3)
	v.SetDefault("AWS_REGION", "us-east-1")

	cfg := &Config{
		Port:      v.GetString("PORT"),
		Env:       v.GetString("ENV"),
		DBPath:    v.GetString("DB_PATH"),
		JWTSecret: v.GetString("JWT_SECRET"),
		Storage: StorageConfig{
			Provider:           v.GetString("STORAGE_PROVIDER"),
			AWSRegion:          v.GetString("AWS_REGION"),
			AWSBucket:          v.GetString("AWS_S3_BUCKET"),
			AWSAccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
			AWSSecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			R2AccountID:        v.GetString("CLOUDFLARE_ACCOUNT_ID"),
			R2Bucket:           v.GetString("CLOUDFLARE_R2_BUCKET"),
			R2AccessKeyID:      v.GetString("CLOUDFLARE_R2_ACCESS_KEY_ID"),
			R2SecretAccessKey:  v.GetString("CLOUDFLARE_R2_SECRET_ACCESS_KEY"),
			R2CustomDomain:     v.GetString("CLOUDFLARE_R2_CUSTOM_DOMAIN"),
		},
	}

	if v.IsSet("BOOTSTRAP_ADMIN") {
		cfg.BootstrapAdmin = v.GetBool("BOOTSTRAP_ADMIN")
	} else {
		cfg.BootstrapAdmin = !cfg.IsProd()
	}

	return cfg
}
