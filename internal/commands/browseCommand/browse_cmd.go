package browseCommand

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/owui-tools/chatbak/internal/config"
	exportservice "github.com/owui-tools/chatbak/internal/services/exportService"
	"github.com/owui-tools/chatbak/internal/services/exportService/ui"
)

// NewBrowseCmd returns the 'browse' command: an interactive, read-only
// view of the chats in the database.
func NewBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse chats in the database with an interactive TUI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cmd.Flags(), cfgFile)
			if err != nil {
				return err
			}
			if cfg.DbPath == "" {
				return &config.ConfigError{Field: "db_path"}
			}

			svc, err := exportservice.NewExporter(cfg.DbPath)
			if err != nil {
				return err
			}
			defer svc.Close()

			model := ui.NewUIModel(svc, cfg.UserID)
			p := tea.NewProgram(model, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	config.BindFlags(cmd.Flags())

	return cmd
}
