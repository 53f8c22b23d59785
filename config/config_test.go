package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "newsportal.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	req := require.New(t)
	t.Setenv("NEWSPORTAL_LOG_LEVEL", "")

	cfg, err := Load("")
	req.NoError(err)
	req.Equal(3, cfg.Site.PerPage)
	req.Equal("common", cfg.Site.DefaultGroup)
	req.Equal("authors", cfg.Site.AuthorsGroup)
	req.Empty(cfg.Mail.Host)
	req.Equal(587, cfg.Mail.Port)
}

func TestLoadFile(t *testing.T) {
	req := require.New(t)
	t.Setenv("NEWSPORTAL_SMTP_PASSWORD", "secret")
	t.Setenv("NEWSPORTAL_LOG_LEVEL", "DEBUG")

	path := writeFile(t, `
[site]
per-page = 10
default-group = readers

[mail]
host = smtp.example.com
port = 465
username = portal
from = portal@example.com
`)

	cfg, err := Load(path)
	req.NoError(err)
	req.Equal(10, cfg.Site.PerPage)
	req.Equal("readers", cfg.Site.DefaultGroup)
	req.Equal("authors", cfg.Site.AuthorsGroup)
	req.Equal(Mail{
		Host:     "smtp.example.com",
		Port:     465,
		Username: "portal",
		From:     "portal@example.com",
	}, cfg.Mail)
	req.Equal("secret", cfg.Env.SMTPPassword)
	req.Equal("DEBUG", cfg.Env.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.ini"))
	require.Error(t, err)

	_, err = Load(writeFile(t, "[site]\nper-page = 0\n"))
	require.Error(t, err)
}
