// Package config reads the site settings from an ini file and secrets from the environment.
package config

import (
	"fmt"

	"github.com/Netflix/go-env"
	"gopkg.in/ini.v1"
)

type Config struct {
	Site Site
	Mail Mail
	Env  Env
}

type Site struct {
	PerPage      int    // posts per listing page
	DefaultGroup string // new users join this group
	AuthorsGroup string
}

// Mail configures the SMTP transport. If Host is empty, notifications are only logged.
type Mail struct {
	Host     string
	Port     int
	Username string
	From     string
}

// Env holds settings which are not written to the config file.
type Env struct {
	SMTPPassword string `env:"NEWSPORTAL_SMTP_PASSWORD"`
	LogLevel     string `env:"NEWSPORTAL_LOG_LEVEL,default=INFO"`
}

func Default() *Config {
	return &Config{
		Site: Site{
			PerPage:      3,
			DefaultGroup: "common",
			AuthorsGroup: "authors",
		},
		Mail: Mail{
			Port: 587,
			From: "noreply@localhost",
		},
		Env: Env{
			LogLevel: "INFO",
		},
	}
}

// Load reads the ini file at path on top of the defaults, then the environment. An empty path skips the file.
func Load(path string) (*Config, error) {

	var cfg = Default()

	if path != "" {
		file, err := ini.Load(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		site := file.Section("site")
		cfg.Site.PerPage = site.Key("per-page").MustInt(cfg.Site.PerPage)
		cfg.Site.DefaultGroup = site.Key("default-group").MustString(cfg.Site.DefaultGroup)
		cfg.Site.AuthorsGroup = site.Key("authors-group").MustString(cfg.Site.AuthorsGroup)

		mail := file.Section("mail")
		cfg.Mail.Host = mail.Key("host").String()
		cfg.Mail.Port = mail.Key("port").MustInt(cfg.Mail.Port)
		cfg.Mail.Username = mail.Key("username").String()
		cfg.Mail.From = mail.Key("from").MustString(cfg.Mail.From)
	}

	if _, err := env.UnmarshalFromEnviron(&cfg.Env); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if cfg.Site.PerPage < 1 {
		return nil, fmt.Errorf("per-page must be positive, got %d", cfg.Site.PerPage)
	}

	return cfg, nil
}
