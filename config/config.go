// server/config/config.go
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// --- Sub-structs mirroring the layout of config.yaml ---

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Env            string        `mapstructure:"env"`
	CorsOrigins    []string      `mapstructure:"corsOrigins"`
	RequestTimeout time.Duration `mapstructure:"requestTimeout"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"` // dynamodb | mongo | memory
}

type DynamoConfig struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	TableName       string `mapstructure:"tableName"`
	AccessKeyID     string `mapstructure:"accessKeyID"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
	MaxRetries      int    `mapstructure:"maxRetries"`
}

type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	DBName     string `mapstructure:"dbName"`
	Collection string `mapstructure:"collection"`
}

type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"` // optional, for MinIO / localstack
	AccessKeyID     string `mapstructure:"accessKeyID"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
}

// MarketConfig restricts listings to one service area. Empty values disable a check.
type MarketConfig struct {
	City       string `mapstructure:"city"`
	State      string `mapstructure:"state"`
	Country    string `mapstructure:"country"`
	ZipPattern string `mapstructure:"zipPattern"`
}

type ListingConfig struct {
	DemoSellerID    string       `mapstructure:"demoSellerId"`
	DefaultCurrency string       `mapstructure:"defaultCurrency"`
	Market          MarketConfig `mapstructure:"market"`
}

type WorkflowConfig struct {
	StrictTransitions bool `mapstructure:"strictTransitions"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// --- Main Config struct ---

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Dynamo   DynamoConfig   `mapstructure:"dynamo"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	S3       S3Config       `mapstructure:"s3"`
	Listing  ListingConfig  `mapstructure:"listing"`
	Workflow WorkflowConfig `mapstructure:"workflow"`
	Log      LogConfig      `mapstructure:"log"`
}

// IsProduction reports whether the server runs with production settings.
func (c Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// LoadDotEnv loads .env in production and .env.local otherwise.
// A missing file is not an error; the process environment is used as-is.
func LoadDotEnv() {
	file := ".env.local"
	if os.Getenv("APP_ENV") == "production" {
		file = ".env"
	}
	_ = godotenv.Load(file)
}

// LoadConfig reads config.yaml from path and overrides it with environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	v.AutomaticEnv()

	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.env", "APP_ENV")
	v.BindEnv("server.corsOrigins", "CORS_ORIGIN")
	v.BindEnv("server.requestTimeout", "REQUEST_TIMEOUT")
	v.BindEnv("store.driver", "STORE_DRIVER")
	v.BindEnv("dynamo.region", "AWS_REGION")
	v.BindEnv("dynamo.endpoint", "DYNAMODB_ENDPOINT")
	v.BindEnv("dynamo.tableName", "PROPERTIES_TABLE")
	v.BindEnv("dynamo.accessKeyID", "AWS_ACCESS_KEY_ID")
	v.BindEnv("dynamo.secretAccessKey", "AWS_SECRET_ACCESS_KEY")
	v.BindEnv("dynamo.maxRetries", "DYNAMODB_MAX_RETRIES")
	v.BindEnv("mongo.uri", "MONGO_URI")
	v.BindEnv("mongo.dbName", "MONGO_DBNAME")
	v.BindEnv("mongo.collection", "MONGO_COLLECTION")
	v.BindEnv("s3.bucket", "S3_BUCKET")
	v.BindEnv("s3.region", "S3_REGION")
	v.BindEnv("s3.endpoint", "S3_ENDPOINT")
	v.BindEnv("s3.accessKeyID", "S3_ACCESS_KEY_ID")
	v.BindEnv("s3.secretAccessKey", "S3_SECRET_ACCESS_KEY")
	v.BindEnv("listing.demoSellerId", "DEMO_SELLER_ID")
	v.BindEnv("listing.defaultCurrency", "DEFAULT_CURRENCY")
	v.BindEnv("listing.market.city", "MARKET_CITY")
	v.BindEnv("listing.market.state", "MARKET_STATE")
	v.BindEnv("listing.market.country", "MARKET_COUNTRY")
	v.BindEnv("listing.market.zipPattern", "MARKET_ZIP_PATTERN")
	v.BindEnv("workflow.strictTransitions", "STRICT_TRANSITIONS")
	v.BindEnv("log.level", "LOG_LEVEL")

	// Missing config.yaml is fine, env vars and defaults still apply.
	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}

	config.Server.CorsOrigins = splitOrigins(config.Server.CorsOrigins)
	if config.Dynamo.Endpoint == "" && !config.IsProduction() {
		config.Dynamo.Endpoint = "http://localhost:8000"
	}

	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5001")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.corsOrigins", []string{"*"})
	v.SetDefault("server.requestTimeout", "10s")
	v.SetDefault("store.driver", "dynamodb")
	v.SetDefault("dynamo.region", "us-east-1")
	v.SetDefault("dynamo.tableName", "Properties")
	v.SetDefault("dynamo.accessKeyID", "local")
	v.SetDefault("dynamo.secretAccessKey", "local")
	v.SetDefault("dynamo.maxRetries", 3)
	v.SetDefault("mongo.dbName", "squarefeet")
	v.SetDefault("mongo.collection", "properties")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("listing.demoSellerId", "SELLER_DEMO_001")
	v.SetDefault("listing.defaultCurrency", "INR")
	v.SetDefault("listing.market.city", "Hyderabad")
	v.SetDefault("listing.market.state", "Telangana")
	v.SetDefault("listing.market.country", "India")
	v.SetDefault("listing.market.zipPattern", `^5\d{5}$`)
	v.SetDefault("workflow.strictTransitions", false)
	v.SetDefault("log.level", "info")
}

// splitOrigins flattens "a,b" entries coming from CORS_ORIGIN.
func splitOrigins(in []string) []string {
	var out []string
	for _, entry := range in {
		for _, origin := range strings.Split(entry, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
