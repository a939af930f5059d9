package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port                string              `mapstructure:"port"`
	UploadDir           string              `mapstructure:"upload_dir"`
	Language            string              `mapstructure:"language"`
	Chunking            ChunkingConfig      `mapstructure:"chunking"`
	Embedder            EmbedderConfig      `mapstructure:"embedder"`
	WeaviateStoreConfig WeaviateStoreConfig `mapstructure:"weaviate_store_config"`
	MongoURI            string              `mapstructure:"MONGODB_URI"`
	JWTSecret           string              `mapstructure:"JWT_SECRET"`
	AdminUsername       string              `mapstructure:"admin_username"`
	AdminPassword       string              `mapstructure:"ADMIN_PASSWORD"`
}

type ChunkingConfig struct {
	MaxTokens      int  `mapstructure:"max_tokens"`
	OverlapEnabled bool `mapstructure:"overlap_enabled"`
}

type EmbedderConfig struct {
	Provider     string `mapstructure:"provider"` // "openai" or "gemini"
	BaseURL      string `mapstructure:"base_url"`
	Model        string `mapstructure:"model"`
	OpenAIAPIKey string `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
}

type WeaviateStoreConfig struct {
	Host      string `mapstructure:"host"`
	APIKey    string `mapstructure:"WEAVIATE_APIKEY"` // Changed to match env var
	IndexName string `mapstructure:"index_name"`
	Dimension int    `mapstructure:"dimension"`
	Metric    string `mapstructure:"metric"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set up Viper to read from config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	// Deployment constants agreed with the embedder and the index
	v.SetDefault("port", "10000")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("language", "fr")
	v.SetDefault("chunking.max_tokens", 500)
	v.SetDefault("chunking.overlap_enabled", true)
	v.SetDefault("embedder.provider", "openai")
	v.SetDefault("weaviate_store_config.dimension", 300)
	v.SetDefault("weaviate_store_config.metric", "cosine")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("GEMINI_API_KEY")
	v.BindEnv("WEAVIATE_APIKEY")
	v.BindEnv("MONGODB_URI")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("ADMIN_PASSWORD")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
