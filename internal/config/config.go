package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppConfig      *AppConfig
	CompilerConfig *CompilerConfig
	BrowserConfig  *BrowserConfig
	HTTPConfig     *HTTPConfig
}

type AppConfig struct {
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Debug       bool   `envconfig:"DEBUG" default:"false"`
	Interactive bool   `envconfig:"INTERACTIVE" default:"true"`
}

type CompilerConfig struct {
	PageVariable     string  `envconfig:"COMPILER_PAGE_VARIABLE" default:"page"`
	IncludeComments  bool    `envconfig:"COMPILER_INCLUDE_COMMENTS" default:"true"`
	OutputDir        string  `envconfig:"COMPILER_OUTPUT_DIR" default:"tests"`
	BaselinesPath    string  `envconfig:"COMPILER_BASELINES_PATH" default:""`
	MaxCandidates    int     `envconfig:"COMPILER_MAX_CANDIDATES" default:"5"`
	CompareThreshold float64 `envconfig:"COMPILER_COMPARE_THRESHOLD" default:"0.05"`
}

type BrowserConfig struct {
	Headless bool `envconfig:"BROWSER_HEADLESS" default:"true"`
	SlowMo   int  `envconfig:"BROWSER_SLOW_MO" default:"0"`
	Timeout  int  `envconfig:"BROWSER_TIMEOUT" default:"30000"`
}

type HTTPConfig struct {
	Addr        string        `envconfig:"HTTP_ADDR" default:""`
	ReadTimeout time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
}

func GetConfig() (*Config, error) {
	_ = godotenv.Load()

	var conf Config

	if err := envconfig.Process("", &conf); err != nil {
		return nil, fmt.Errorf("read config from env vars: %w", err)
	}

	return &conf, nil
}
