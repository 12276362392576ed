// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	goerrors "gopkg.in/src-d/go-errors.v1"
	"gopkg.in/yaml.v3"

	"github.com/dolthub/dolt/compattest/libraries/compat/dbconn"
)

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var ErrInvalidArgument = goerrors.NewKind("invalid %s: %s")
var ErrReadConfig = goerrors.NewKind("unable to read config file %s")

// Config is the complete configuration of a test run. Values can come from a YAML file and are overridden by the
// command line.
type Config struct {
	// The server and the test file are always given on the command line, so they are not read from the file.
	Host     string `yaml:"-"`
	Port     int    `yaml:"-"`
	User     string `yaml:"-"`
	Password string `yaml:"-"`
	TestFile string `yaml:"-"`

	Driver   string            `yaml:"driver" default:"mysql"`
	Database string            `yaml:"database"`
	Params   map[string]string `yaml:"params"`
	LogLevel string            `yaml:"log_level" default:"info"`
	Color    string            `yaml:"color" default:"auto"`
}

// New returns a Config with all defaults applied.
func New() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		panic(err)
	}
	return cfg
}

// Load reads a YAML config file. Fields missing from the file get their defaults. Unknown fields are an error.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadConfig.Wrap(err, path)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, ErrReadConfig.Wrap(err, path)
	}
	return cfg, nil
}

func Parse(r io.Reader) (*Config, error) {
	cfg := New()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	err := decoder.Decode(cfg)
	if err == io.EOF {
		return cfg, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	// an explicit empty value in the file means the default
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}

	cfg.SetDriver(cfg.Driver)
	cfg.Color = strings.ToLower(cfg.Color)
	return cfg, nil
}

// SetDriver sets the driver name. Names are matched without regard to case.
func (cfg *Config) SetDriver(name string) {
	cfg.Driver = strings.ToLower(name)
}

// SetPort parses and sets the server port.
func (cfg *Config) SetPort(s string) error {
	port, err := strconv.ParseUint(s, 10, 16)
	if err != nil || port == 0 {
		return ErrInvalidArgument.New("port", strconv.Quote(s))
	}
	cfg.Port = int(port)
	return nil
}

// Validate checks that the configuration describes a runnable test.
func (cfg *Config) Validate() error {
	if cfg.Host == "" {
		return ErrInvalidArgument.New("host", "host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return ErrInvalidArgument.New("port", strconv.Itoa(cfg.Port))
	}
	if cfg.TestFile == "" {
		return ErrInvalidArgument.New("test file", "test file is required")
	}

	validDriver := false
	for _, d := range dbconn.Drivers() {
		if d == cfg.Driver {
			validDriver = true
		}
	}
	if !validDriver {
		return ErrInvalidArgument.New("driver", cfg.Driver+". valid drivers are: "+strings.Join(dbconn.Drivers(), "|"))
	}

	switch cfg.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return ErrInvalidArgument.New("color", cfg.Color+". valid values are: auto|always|never")
	}

	if _, err := cfg.Level(); err != nil {
		return ErrInvalidArgument.New("log level", cfg.LogLevel)
	}

	return nil
}

// Level returns the logrus level named by LogLevel.
func (cfg *Config) Level() (logrus.Level, error) {
	return logrus.ParseLevel(cfg.LogLevel)
}

// ConnConfig returns the part of the configuration needed to connect to the server.
func (cfg *Config) ConnConfig() dbconn.Config {
	return dbconn.Config{
		Driver:   cfg.Driver,
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Database: cfg.Database,
		Params:   cfg.Params,
	}
}
