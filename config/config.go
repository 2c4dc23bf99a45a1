package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultPath = "forecast.yaml"
	envPrefix   = "FORECAST_"
)

type Application struct {
	// LogLevel overrides LOG_LEVEL when set.
	LogLevel string `koanf:"log_level"`
	Server   Server `koanf:"server"`
	Engine   Engine `koanf:"engine"`
	Output   Output `koanf:"output"`
}

type Server struct {
	Port           int      `koanf:"port"`
	AllowedOrigins []string `koanf:"allowed_origins"`
}

type Engine struct {
	Workers int `koanf:"workers"`
}

type Output struct {
	// Format defaults to the extension of Path.
	Format string `koanf:"format"`
	Path   string `koanf:"path"`
	// SQLite is the run store path; empty disables it.
	SQLite string `koanf:"sqlite"`
}

// sections are the nested keys; an env var FORECAST_SERVER_PORT maps to
// server.port while FORECAST_LOG_LEVEL stays log_level.
var sections = map[string]bool{"server": true, "engine": true, "output": true}

func defaults() Application {
	return Application{
		Server: Server{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Engine: Engine{Workers: 1},
	}
}

func Load(path string) (Application, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Errorf("error loading .env: %v", err)
		return Application{}, err
	}

	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Debugf("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = envKey(k)
			if k == "server.allowed_origins" {
				return k, strings.Split(v, ",")
			}
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}

func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
	if section, rest, ok := strings.Cut(key, "_"); ok && sections[section] {
		return section + "." + rest
	}
	return key
}

// ApplyLogLevel sets the logrus level from the config; an empty level
// leaves it unchanged.
func (a Application) ApplyLogLevel() error {
	if a.LogLevel == "" {
		return nil
	}
	level, err := log.ParseLevel(a.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}
