package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Postgres struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (p Postgres) ConnStr() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s", p.Host, p.User, p.Password, p.DBName, p.Port, p.SSLMode)
}

type Ollama struct {
	Host            string `mapstructure:"host"`
	Port            string `mapstructure:"port"`
	EmbeddingModel  string `mapstructure:"embeddingModel"`
	GenerationModel string `mapstructure:"generationModel"`
	ParserModel     string `mapstructure:"parserModel"`
}

func (o *Ollama) Address() string {
	return fmt.Sprintf("http://%s:%s", o.Host, o.Port)
}

type GoogleAI struct {
	APIKey string `mapstructure:"apiKey"`
	Model  string `mapstructure:"model"`
}

// Generator selects the generative-model provider, "ollama" or "googleai".
type Generator struct {
	Provider       string `mapstructure:"provider"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds"`
}

func (g *Generator) Timeout() time.Duration {
	if g.TimeoutSeconds < 1 {
		return 30 * time.Second
	}
	return time.Duration(g.TimeoutSeconds) * time.Second
}

type Search struct {
	K             int `mapstructure:"k"`
	NumCandidates int `mapstructure:"numCandidates"`
	ReviewLimit   int `mapstructure:"reviewLimit"`
}

type EmbeddingCache struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type Server struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type Config struct {
	Postgres       Postgres       `mapstructure:"postgres"`
	Ollama         Ollama         `mapstructure:"ollama"`
	GoogleAI       GoogleAI       `mapstructure:"googleai"`
	Generator      Generator      `mapstructure:"generator"`
	Search         Search         `mapstructure:"search"`
	EmbeddingCache EmbeddingCache `mapstructure:"embeddingCache"`
	Server         Server         `mapstructure:"server"`
}

func LoadConfig() *Config {
	viper.SetConfigFile("./config/config.yaml")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatal(err)
	}

	return &config
}
