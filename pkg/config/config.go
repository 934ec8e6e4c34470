// Package config loads the bot's settings from flags, the environment, an
// optional .env file and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dasmlab/kotoba/pkg/bot"
	"github.com/dasmlab/kotoba/pkg/language"
	"github.com/dasmlab/kotoba/pkg/session"
	"github.com/dasmlab/kotoba/pkg/translate"
)

// Options are the command-line and environment settings.
type Options struct {
	DiscordToken  string        `long:"discord-token" env:"DISCORD_TOKEN" description:"Discord bot token"`
	GeminiAPIKey  string        `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key"`
	GeminiModel   string        `long:"gemini-model" env:"GEMINI_MODEL" description:"Gemini model name" default:"gemini-2.0-flash"`
	GeminiURL     string        `long:"gemini-url" env:"GEMINI_URL" description:"Gemini API base URL" default:"https://generativelanguage.googleapis.com"`
	GeminiTimeout time.Duration `long:"gemini-timeout" env:"GEMINI_TIMEOUT" description:"Timeout for each Gemini call, 0 for none" default:"0s"`
	Mode          string        `long:"mode" env:"TRANSLATE_MODE" description:"Translation mode: pair or autodetect" default:"pair"`
	Prefix        string        `long:"prefix" env:"COMMAND_PREFIX" description:"Single-character command prefix" default:"!"`
	LangPair      string        `long:"lang-pair" env:"LANG_PAIR" description:"Initial language pair" default:"ja-en"`
	ConfigFile    string        `long:"config" env:"KOTOBA_CONFIG" description:"Optional YAML file with inline triggers"`
	EnvFile       string        `long:"env-file" env:"KOTOBA_ENV_FILE" description:"dotenv file loaded before reading the environment" default:".env"`
	HTTPPort      int           `long:"http-port" env:"HTTP_PORT" description:"Port for /health, /status and /metrics, 0 to disable" default:"8080"`
	GRPCPort      int           `long:"grpc-port" env:"GRPC_PORT" description:"Port for the gRPC health service, 0 to disable" default:"50051"`
	LogLevel      string        `long:"log-level" env:"LOG_LEVEL" description:"Log level: debug, info, warn, error" default:"info"`
}

// File is the optional YAML configuration.
type File struct {
	Triggers []string `yaml:"triggers"`
}

// Config is the validated configuration.
type Config struct {
	Options
	Mode     translate.Mode
	From     string
	To       string
	Triggers []string
}

// Load parses args (without the program name) and the environment, loads
// the optional files, and validates the result.
func Load(args []string) (*Config, error) {
	var opts Options
	// The env file location may itself come from the command line.
	envParser := flags.NewParser(&opts, flags.IgnoreUnknown)
	if _, err := envParser.ParseArgs(args); err != nil {
		return nil, err
	}
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	opts = Options{}
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}
	return fromOptions(opts)
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func fromOptions(opts Options) (*Config, error) {
	if opts.DiscordToken == "" {
		return nil, errors.New("DISCORD_TOKEN not found in environment variables")
	}
	if opts.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_API_KEY not found in environment variables")
	}

	mode, err := translate.ParseMode(opts.Mode)
	if err != nil {
		return nil, err
	}

	if utf8.RuneCountInString(opts.Prefix) != 1 {
		return nil, fmt.Errorf("command prefix must be a single character, got %q", opts.Prefix)
	}

	from, to, ok := language.ParsePair(opts.LangPair)
	if !ok {
		return nil, fmt.Errorf("invalid language pair %q: expected format ja-en", opts.LangPair)
	}
	if !language.IsSupported(from) || !language.IsSupported(to) {
		return nil, fmt.Errorf("invalid language pair %q: %w", opts.LangPair, session.ErrInvalidLanguageCode)
	}

	cfg := &Config{
		Options:  opts,
		Mode:     mode,
		From:     from,
		To:       to,
		Triggers: bot.DefaultTriggers,
	}

	if opts.ConfigFile != "" {
		file, err := LoadFile(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		if file.Triggers != nil {
			cfg.Triggers = file.Triggers
		}
	}

	return cfg, nil
}

// LoadFile reads the YAML configuration file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &f, nil
}
