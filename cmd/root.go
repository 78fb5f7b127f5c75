// The root command for the CLI.
// This root 'composes' the subcommands and provides global flags like --config.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/owui-tools/chatbak/internal/commands/backupCommand"
	"github.com/owui-tools/chatbak/internal/commands/browseCommand"
	"github.com/owui-tools/chatbak/internal/commands/doctorCommand"
	"github.com/owui-tools/chatbak/internal/commands/exportCommand"
	"github.com/owui-tools/chatbak/internal/commands/snapshotsCommand"
	"github.com/owui-tools/chatbak/internal/commands/syncCommand"
	"github.com/owui-tools/chatbak/internal/version"
)

var (
	// A path to a file to load configuration from
	cfgFile string
	// For enabling debug logging with --debug/-D
	debug bool
)

// Cobra root command
var rootCmd = &cobra.Command{
	Use:   "chatbak",
	Short: "Backup OpenWebUI chat history to a local directory and a Git remote",
	Long: `chatbak snapshots an OpenWebUI chat-history database into a backup
directory, optionally exports every chat to Markdown, and keeps the backup
directory synchronized with a private Git repository over SSH or HTTPS.

Settings come from a config file (--config), CHATBAK_* environment
variables, or flags, in that order of precedence.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute the root Cobra command
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (JSON, YAML, TOML or .env)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "D", false, "Enable debug logging")

	rootCmd.AddCommand(backupCommand.NewBackupCmd())
	rootCmd.AddCommand(syncCommand.NewSyncCmd())
	rootCmd.AddCommand(exportCommand.NewExportCmd())
	rootCmd.AddCommand(snapshotsCommand.NewSnapshotsCmd())
	rootCmd.AddCommand(doctorCommand.NewDoctorCmd())
	rootCmd.AddCommand(browseCommand.NewBrowseCmd())
	rootCmd.AddCommand(version.NewSelfCommand())
}
