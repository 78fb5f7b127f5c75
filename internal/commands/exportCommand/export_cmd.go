package exportCommand

import (
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/owui-tools/chatbak/internal/config"
	exportservice "github.com/owui-tools/chatbak/internal/services/exportService"
	"github.com/owui-tools/chatbak/internal/utils/spinner"
)

// NewExportCmd returns the 'export' command: render every chat to
// Markdown without snapshotting or syncing.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export chats to Markdown files in the backup directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cmd.Flags(), cfgFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(false); err != nil {
				return err
			}

			exporter, err := exportservice.NewExporter(cfg.DbPath)
			if err != nil {
				return err
			}
			defer exporter.Close()

			stop := spinner.StartSpinner("Exporting chats...")
			n, err := exporter.Export(cfg.BackupPath, cfg.UserID)
			stop()
			if err != nil {
				return err
			}

			p := message.NewPrinter(language.English)
			p.Printf("Exported %d chats to %s\n", n, cfg.BackupPath)
			return nil
		},
	}

	config.BindFlags(cmd.Flags())

	return cmd
}
