package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Mongo      MongoConfig      `mapstructure:"mongo"`
	Relational RelationalConfig `mapstructure:"relational"`
	Scraper    ScraperConfig    `mapstructure:"scraper"`
	Translate  TranslateConfig  `mapstructure:"translate"`
	Nutrition  NutritionConfig  `mapstructure:"nutrition"`
	Sandwich   SandwichConfig   `mapstructure:"sandwich"`
	Wikidata   WikidataConfig   `mapstructure:"wikidata"`
	Auth       AuthConfig       `mapstructure:"auth"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RelationalConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	Path            string        `mapstructure:"path"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN builds the driver-specific connection string.
func (c *RelationalConfig) DSN() string {
	switch c.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.Host, c.Port, c.User, c.Password, c.Database)
	case "sqlite":
		return c.Path
	default: // mysql
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.Database)
	}
}

// Category is one scraped listing: a display name and the paginated listing
// URL the page number is appended to.
type Category struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

type ScraperConfig struct {
	Categories []Category    `mapstructure:"categories"`
	MaxPages   int           `mapstructure:"max_pages"`
	UserAgent  string        `mapstructure:"user_agent"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type TranslateConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Source  string        `mapstructure:"source"`
	Target  string        `mapstructure:"target"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type NutritionConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	AccessToken string        `mapstructure:"access_token"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	Backoff     time.Duration `mapstructure:"backoff"`
	Pacing      time.Duration `mapstructure:"pacing"`
}

type SandwichConfig struct {
	CSVPath string `mapstructure:"csv_path"`
}

type WikidataConfig struct {
	Endpoint  string        `mapstructure:"endpoint"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	Username      string        `mapstructure:"username"`
	Password      string        `mapstructure:"password"`
	SecretKey     string        `mapstructure:"secret_key"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "recettes_db")
	v.SetDefault("relational.driver", "mysql")
	v.SetDefault("relational.host", "localhost")
	v.SetDefault("relational.port", 3306)
	v.SetDefault("relational.user", "root")
	v.SetDefault("relational.database", "nutrition")
	v.SetDefault("relational.path", "./data/nutrition.db")
	v.SetDefault("relational.auto_migrate", true)
	v.SetDefault("relational.max_idle_conns", 2)
	v.SetDefault("relational.max_open_conns", 10)
	v.SetDefault("relational.conn_max_lifetime", time.Hour)
	v.SetDefault("scraper.max_pages", 3)
	v.SetDefault("scraper.timeout", 15*time.Second)
	v.SetDefault("scraper.user_agent", "gourmand-collector/1.0")
	v.SetDefault("scraper.categories", []map[string]interface{}{
		{"name": "Vegan", "url": "https://www.marmiton.org/recettes/selection_recette_vegan.aspx?p="},
		{"name": "Sans Gluten", "url": "https://www.marmiton.org/recettes/selection_sans_gluten.aspx?p="},
		{"name": "Végétarien", "url": "https://www.marmiton.org/recettes/selection_vegetarien.aspx?p="},
		{"name": "Healthy", "url": "https://www.marmiton.org/recettes/selection_mincealors.aspx?p="},
	})
	v.SetDefault("translate.base_url", "https://libretranslate.com")
	v.SetDefault("translate.source", "fr")
	v.SetDefault("translate.target", "en")
	v.SetDefault("translate.timeout", 10*time.Second)
	v.SetDefault("nutrition.base_url", "https://platform.fatsecret.com/rest/server.api")
	v.SetDefault("nutrition.timeout", 15*time.Second)
	v.SetDefault("nutrition.max_attempts", 3)
	v.SetDefault("nutrition.backoff", 5*time.Second)
	v.SetDefault("nutrition.pacing", 5*time.Second)
	v.SetDefault("sandwich.csv_path", "./data/sandwich_ingredients.csv")
	v.SetDefault("wikidata.endpoint", "https://query.wikidata.org/sparql")
	v.SetDefault("wikidata.user_agent", "gourmand-collector/1.0")
	v.SetDefault("wikidata.timeout", 60*time.Second)
	v.SetDefault("auth.token_lifetime", 30*time.Minute)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("mongo.uri", "MONGO_URI")
	v.BindEnv("relational.host", "MYSQL_HOST")
	v.BindEnv("relational.port", "MYSQL_PORT")
	v.BindEnv("relational.user", "MYSQL_USER")
	v.BindEnv("relational.password", "MYSQL_PASSWORD")
	v.BindEnv("relational.database", "MYSQL_DATABASE")
	v.BindEnv("nutrition.access_token", "FATSECRET_ACCESS_TOKEN")
	v.BindEnv("translate.api_key", "TRANSLATE_API_KEY")
	v.BindEnv("translate.base_url", "TRANSLATE_BASE_URL")
	v.BindEnv("auth.username", "API_USERNAME")
	v.BindEnv("auth.password", "API_PASSWORD")
	v.BindEnv("auth.secret_key", "SECRET_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
