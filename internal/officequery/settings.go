package officequery

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
)

const (
	envDBType = "OFFICEQUERY_DB_TYPE"
	envDBURL  = "OFFICEQUERY_DB_URL"
)

type Settings struct {
	DBType string
	DBURL  string
}

// loadSettings reads connection defaults from the dotenv file named by
// -env-file. Only the file is consulted; the process environment is not. The
// db type is left raw so an explicit -db-type can still replace a bad value.
func loadSettings(path string) (Settings, error) {
	if strings.TrimSpace(path) == "" {
		return Settings{}, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read env file: %w", err)
	}

	return Settings{
		DBType: strings.TrimSpace(values[envDBType]),
		DBURL:  strings.TrimSpace(values[envDBURL]),
	}, nil
}

func applySettingsDefaults(cfg *Config, s Settings) {
	if s.DBType != "" {
		cfg.DBType = s.DBType
	}
	if s.DBURL != "" {
		cfg.DBURL = s.DBURL
	}
}

func normalizeDBTypeInput(v string) (string, error) {
	t := strings.ToLower(strings.TrimSpace(v))
	switch t {
	case "sqlite", "postgres", "mysql":
		return t, nil
	case "sqlite3":
		return "sqlite", nil
	case "postgresql", "pg":
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported --db-type %q (expected sqlite|postgres|postgresql|mysql)", v)
	}
}
