package pkg

import (
	"errors"
	"io/fs"
	"os"

	"github.com/drone/envsubst"
	"github.com/subosito/gotenv"
	"go.yaml.in/yaml/v4"
)

const defaultConfigPath = "config.yml"

type Config struct {
	DatabaseCfg  `yaml:"database" json:"database"`
	RabbitMQCfg  `yaml:"rabbitmq" json:"rabbitmq"`
	WebSocketCfg `yaml:"websocket" json:"websocket"`
	ServicesCfg  `yaml:"services" json:"services"`
	AuthCfg      `yaml:"auth" json:"auth"`
	AssistantCfg `yaml:"assistant" json:"assistant"`
	ImportCfg    `yaml:"import" json:"import"`
}

type DatabaseCfg struct {
	Host     string `yaml:"host" json:"host"`
	Port     uint16 `yaml:"port" json:"port"`
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"password"`
	Database string `yaml:"database" json:"database"`
	SSLMode  string `yaml:"sslmode" json:"sslmode"`
}

type RabbitMQCfg struct {
	Host     string `yaml:"host" json:"host"`
	Port     uint16 `yaml:"port" json:"port"`
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"password"`
}

type WebSocketCfg struct {
	Port uint16 `yaml:"port" json:"port"`
}

type ServicesCfg struct {
	DashboardService uint16 `yaml:"dashboard_service" json:"dashboard_service"`
	LogLevel         string `yaml:"log_level" json:"log_level"`
}

// AuthCfg points at the external identity provider. JWTSecret verifies the
// access tokens it issues.
type AuthCfg struct {
	JWTSecret   string `yaml:"jwt_secret" json:"-"`
	IdentityURL string `yaml:"identity_url" json:"identity_url"`
	AnonKey     string `yaml:"anon_key" json:"-"`
}

type AssistantCfg struct {
	APIKey      string  `yaml:"api_key" json:"-"`
	Model       string  `yaml:"model" json:"model"`
	Temperature float32 `yaml:"temperature" json:"temperature"`
	TopP        float32 `yaml:"top_p" json:"top_p"`
}

type ImportCfg struct {
	MaxUploadMB int64 `yaml:"max_upload_mb" json:"max_upload_mb"`
}

// ParseConfig loads .env (when present) into the environment, expands
// ${VAR:-default} references in config.yml and decodes the result.
func ParseConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	return ParseConfigFile(path)
}

func ParseConfigFile(path string) (*Config, error) {
	err := gotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	replaced, err := envsubst.EvalEnv(string(data))
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	err = yaml.Unmarshal([]byte(replaced), cfg)
	if err != nil {
		return nil, err
	}
	cfg.setDefaults()
	if cfg.AuthCfg.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.DatabaseCfg.SSLMode == "" {
		c.DatabaseCfg.SSLMode = "disable"
	}
	if c.ServicesCfg.DashboardService == 0 {
		c.ServicesCfg.DashboardService = 3000
	}
	if c.WebSocketCfg.Port == 0 {
		c.WebSocketCfg.Port = 3001
	}
	if c.AssistantCfg.Model == "" {
		c.AssistantCfg.Model = "gemini-2.5-flash"
	}
	if c.AssistantCfg.Temperature == 0 {
		c.AssistantCfg.Temperature = 0.3
	}
	if c.AssistantCfg.TopP == 0 {
		c.AssistantCfg.TopP = 0.8
	}
	if c.ImportCfg.MaxUploadMB == 0 {
		c.ImportCfg.MaxUploadMB = 10
	}
}
