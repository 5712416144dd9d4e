package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	appConfigName = "config"
	appConfigType = "yaml"
	appConfigFile = "config.yaml"

	KeyDBPath     = "db_path"
	KeyFPS        = "fps"
	KeySSHAddr    = "ssh.addr"
	KeySSHHostKey = "ssh.host_key"
	KeyLogLevel   = "log_level"
	KeyPlayer     = "player"
)

// defaultAppYAML is written to config.yaml on first run.
const defaultAppYAML = `# match3 settings
# Every key can also be set with a MATCH3_ environment variable,
# e.g. MATCH3_SSH_ADDR=:2222

# db_path: ~/.match3/scores.db
fps: 30
log_level: info
# player: anonymous

ssh:
  addr: ":23234"
  host_key: ".ssh/match3_ed25519"
`

// AppSettings are the process-level settings shared by every command.
type AppSettings struct {
	DBPath     string
	FPS        int
	SSHAddr    string
	SSHHostKey string
	LogLevel   string
	Player     string
}

// DefaultDir returns ~/.match3, or .match3 when home is unavailable.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".match3"
	}
	return filepath.Join(home, ".match3")
}

// LoadApp reads config.yaml from dir with viper, creating the directory
// and a default file on first run. Environment variables prefixed with
// MATCH3_ override the file.
func LoadApp(dir string) (*viper.Viper, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultAppFile(dir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(KeyDBPath, filepath.Join(dir, "scores.db"))
	v.SetDefault(KeyFPS, 30)
	v.SetDefault(KeySSHAddr, ":23234")
	v.SetDefault(KeySSHHostKey, ".ssh/match3_ed25519")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyPlayer, "")
	v.SetConfigName(appConfigName)
	v.SetConfigType(appConfigType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix("MATCH3")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// AppSettingsFrom extracts typed settings from a loaded viper instance.
func AppSettingsFrom(v *viper.Viper) AppSettings {
	return AppSettings{
		DBPath:     v.GetString(KeyDBPath),
		FPS:        v.GetInt(KeyFPS),
		SSHAddr:    v.GetString(KeySSHAddr),
		SSHHostKey: v.GetString(KeySSHHostKey),
		LogLevel:   v.GetString(KeyLogLevel),
		Player:     v.GetString(KeyPlayer),
	}
}

func ensureDefaultAppFile(dir string) error {
	path := filepath.Join(dir, appConfigFile)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultAppYAML), 0o644)
}
