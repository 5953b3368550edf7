// Package config provides runtime configuration for bookshelf, sourced from
// environment variables and an optional TOML file.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

// FileConfig mirrors the optional bookshelf.toml file. Values from the file
// are used only when the corresponding environment variable is unset.
type FileConfig struct {
	Listen        string `toml:"listen"`
	Port          int    `toml:"port"`
	BasePath      string `toml:"basePath"`
	WebDomain     string `toml:"webDomain"`
	SessionSecret string `toml:"sessionSecret"`
	SessionMaxAge int    `toml:"sessionMaxAge"`
}

var fileConfig FileConfig

// LoadFile reads the optional TOML config file. A missing file is not an
// error; a malformed one is.
func LoadFile() error {
	path := os.Getenv("BSHELF_CONFIG")
	if path == "" {
		path = "bookshelf.toml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return toml.Unmarshal(data, &fileConfig)
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("BSHELF_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("BSHELF_DEBUG") == "true"
}

func GetListen() string {
	listen := os.Getenv("BSHELF_LISTEN")
	if listen == "" {
		listen = fileConfig.Listen
	}
	return listen
}

func GetPort() int {
	if port := os.Getenv("BSHELF_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	if fileConfig.Port != 0 {
		return fileConfig.Port
	}
	return 8080
}

// GetBasePath returns the URL prefix all routes and assets are served under.
// Always starts and ends with "/".
func GetBasePath() string {
	basePath := os.Getenv("BSHELF_BASE_PATH")
	if basePath == "" {
		basePath = fileConfig.BasePath
	}
	if basePath == "" {
		return "/"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	return basePath
}

func GetWebDomain() string {
	domain := os.Getenv("BSHELF_WEB_DOMAIN")
	if domain == "" {
		domain = fileConfig.WebDomain
	}
	return domain
}

// GetSessionSecret returns the cookie-store secret, empty when none is
// configured. Callers fall back to a random per-process secret.
func GetSessionSecret() string {
	secret := os.Getenv("BSHELF_SESSION_SECRET")
	if secret == "" {
		secret = fileConfig.SessionSecret
	}
	return secret
}

// GetSessionMaxAge returns the session lifetime in minutes.
func GetSessionMaxAge() int {
	if v := os.Getenv("BSHELF_SESSION_MAX_AGE"); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m > 0 {
			return m
		}
	}
	if fileConfig.SessionMaxAge > 0 {
		return fileConfig.SessionMaxAge
	}
	return 60
}

func GetCertFile() string {
	return os.Getenv("BSHELF_CERT_FILE")
}

func GetKeyFile() string {
	return os.Getenv("BSHELF_KEY_FILE")
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("BSHELF_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "data"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("BSHELF_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "log"
	}
	return logFolderPath
}
