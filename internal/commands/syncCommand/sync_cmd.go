package syncCommand

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/owui-tools/chatbak/internal/config"
	gitservice "github.com/owui-tools/chatbak/internal/services/gitService"
	"github.com/owui-tools/chatbak/internal/utils/spinner"
)

// NewSyncCmd returns the 'sync' command: push an existing backup
// directory to the remote without taking a new snapshot.
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Commit and push the backup directory without taking a new snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cmd.Flags(), cfgFile)
			if err != nil {
				return err
			}

			if err := cfg.Validate(true); err != nil {
				return err
			}
			if _, err := os.Stat(cfg.BackupPath); err != nil {
				return fmt.Errorf("backup directory %s does not exist, run 'chatbak backup' first", cfg.BackupPath)
			}

			sync := gitservice.NewSynchronizer(
				cfg.BackupPath,
				cfg.GithubRepo,
				gitservice.Credentials{Token: cfg.GithubToken, SSHKeyPath: cfg.GitSSHKeyPath},
				cfg.GitProxy,
			)

			stop := spinner.StartSpinner("Syncing to remote...")
			committed, pushed, err := sync.Sync(gitservice.SyncMessage(time.Now()))
			stop()
			if err != nil {
				if committed && !pushed {
					fmt.Println("Changes were committed locally but the push failed.")
				}
				return err
			}

			if committed {
				fmt.Println("Synced to remote.")
			} else {
				fmt.Println("Nothing to sync, remote is up to date.")
			}
			return nil
		},
	}

	config.BindFlags(cmd.Flags())

	return cmd
}
