package backupCommand

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/owui-tools/chatbak/internal/config"
	"github.com/owui-tools/chatbak/internal/tool"
	"github.com/owui-tools/chatbak/internal/utils/spinner"
)

// NewBackupCmd returns the 'backup' command: snapshot the database,
// optionally export chats to Markdown, optionally sync to the remote.
func NewBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the chat database and sync it to the configured Git remote",
		Long: `Copies the OpenWebUI chat database into the backup directory, optionally
exports every chat to Markdown, and (unless --auto-push=false) commits and
pushes the backup directory to the configured remote repository.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cmd.Flags(), cfgFile)
			if err != nil {
				return err
			}

			stop := spinner.StartSpinner("Backing up...")
			res := tool.Run(cfg)
			stop()

			fmt.Println(res.String())

			return res.Err
		},
	}

	config.BindFlags(cmd.Flags())

	return cmd
}
