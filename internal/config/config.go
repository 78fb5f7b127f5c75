// Configuration for the chatbak CLI.
// Settings are resolved fresh on every invocation: config file (if given),
// then CHATBAK_* environment variables, then command-line flags.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/owui-tools/chatbak/internal/utils/path"
)

// BackupConfig holds every setting one backup invocation needs.
// It is resolved once per run and never mutated afterwards.
type BackupConfig struct {
	// Where snapshots and exports are written
	BackupPath string `koanf:"backup_path"`
	// Path to the OpenWebUI SQLite database (e.g. /app/backend/data/webui.db)
	DbPath string `koanf:"db_path"`
	// Remote repository URL, SSH or HTTPS form
	GithubRepo string `koanf:"github_repo"`
	// Personal access token, only used for HTTPS remotes
	GithubToken string `koanf:"github_token"`
	// Private key for SSH remotes (e.g. ~/.ssh/id_ed25519)
	GitSSHKeyPath string `koanf:"git_ssh_key_path"`
	// Optional proxy URL for push traffic
	GitProxy string `koanf:"git_proxy"`
	// Push the backup directory to the remote after a snapshot
	AutoPush bool `koanf:"auto_push"`
	// Render every chat to Markdown alongside the snapshot
	ExportMarkdown bool `koanf:"export_markdown"`
	// Restrict the Markdown export to one OpenWebUI user id
	UserID string `koanf:"user_id"`
	// Write timestamped snapshots instead of overwriting one file
	TimestampSnapshots bool `koanf:"snapshot_timestamp"`
	// How many timestamped snapshots to retain
	KeepSnapshots int `koanf:"snapshot_keep"`
	// Copy via SQLite VACUUM INTO instead of a raw byte copy
	SafeCopy bool `koanf:"snapshot_safe"`
}

// ConfigError reports a required setting that is absent or empty.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required setting: %s", e.Field)
}

// Load resolves a BackupConfig from file, environment and flags.
// Flag names use dashes (--db-path) and map onto underscore keys (db_path).
func Load(flagSet *pflag.FlagSet, configFile string) (*BackupConfig, error) {
	k := koanf.New(".")

	if configFile != "" {
		parser, err := parserForFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("unsupported config file format: %w", err)
		}
		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// CHATBAK_DB_PATH -> db_path
	k.Load(env.Provider("CHATBAK_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "CHATBAK_"))
	}), nil)

	// Command-line flags win. Only flags the user actually set are merged.
	if flagSet != nil {
		k.Load(posflag.ProviderWithFlag(flagSet, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flagSet, f)
		}), nil)
	}

	cfg := &BackupConfig{
		AutoPush:      true,
		KeepSnapshots: 3,
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.expandPaths()

	return cfg, nil
}

// BindFlags registers the standard backup settings on a command's flag
// set. Defaults declared here never clobber file or env values because
// Load only merges flags the user changed.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("db-path", "", "Path to the OpenWebUI SQLite database")
	fs.String("backup-path", "", "Directory snapshots are written to")
	fs.String("github-repo", "", "Remote repository URL (SSH or HTTPS)")
	fs.String("github-token", "", "Personal access token for HTTPS remotes")
	fs.String("git-ssh-key-path", "", "SSH private key for SSH remotes")
	fs.String("git-proxy", "", "Proxy URL for git traffic")
	fs.Bool("auto-push", true, "Push to the remote after the snapshot")
	fs.Bool("export-markdown", false, "Also export every chat to Markdown")
	fs.String("user-id", "", "Limit the Markdown export to one user id")
	fs.Bool("snapshot-timestamp", false, "Write timestamped snapshots instead of overwriting one file")
	fs.Int("snapshot-keep", 3, "Timestamped snapshots to retain")
	fs.Bool("snapshot-safe", false, "Copy via SQLite VACUUM INTO instead of a byte copy")
}

// Validate checks that every setting the requested operation needs is present.
// forPush additionally requires a remote repository URL.
func (c *BackupConfig) Validate(forPush bool) error {
	if strings.TrimSpace(c.DbPath) == "" {
		return &ConfigError{Field: "db_path"}
	}
	if strings.TrimSpace(c.BackupPath) == "" {
		return &ConfigError{Field: "backup_path"}
	}
	if forPush && strings.TrimSpace(c.GithubRepo) == "" {
		return &ConfigError{Field: "github_repo"}
	}
	return nil
}

func (c *BackupConfig) expandPaths() {
	for _, p := range []*string{&c.BackupPath, &c.DbPath, &c.GitSSHKeyPath} {
		if *p == "" {
			continue
		}
		if expanded, err := path.ExpandPath(*p); err == nil {
			*p = expanded
		}
	}
}

func parserForFile(p string) (koanf.Parser, error) {
	ext := strings.ToLower(filepath.Ext(p))
	switch ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".env":
		return dotenv.Parser(), nil
	default:
		return nil, fmt.Errorf("unknown file extension: %s", ext)
	}
}
