package snapshotsCommand

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/owui-tools/chatbak/internal/config"
	"github.com/owui-tools/chatbak/internal/utils/convert"
)

// NewSnapshotsCmd returns the 'snapshots' command: list the snapshot
// files currently in the backup directory.
func NewSnapshotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List snapshots in the backup directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cmd.Flags(), cfgFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(false); err != nil {
				return err
			}

			snapshots, err := findSnapshots(cfg.BackupPath, filepath.Base(cfg.DbPath))
			if err != nil {
				return err
			}
			if len(snapshots) == 0 {
				fmt.Printf("No snapshots found in %s\n", cfg.BackupPath)
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Name", "Size", "Modified", "Age"})
			for _, s := range snapshots {
				t.AppendRow(table.Row{
					s.name,
					convert.BytesToHumanReadable(uint64(s.size)),
					s.modTime.Format("2006-01-02 15:04:05"),
					time.Since(s.modTime).Round(time.Second),
				})
			}
			t.Render()

			return nil
		},
	}

	config.BindFlags(cmd.Flags())

	return cmd
}

type snapshotEntry struct {
	name    string
	size    int64
	modTime time.Time
}

// findSnapshots returns the fixed-name snapshot and any timestamped
// snapshots of base inside dir, newest first.
func findSnapshots(dir, base string) ([]snapshotEntry, error) {
	patterns := []string{
		filepath.Join(dir, base),
		filepath.Join(dir, "*_"+base),
	}

	var entries []snapshotEntry
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			fi, err := os.Stat(m)
			if err != nil {
				continue
			}
			entries = append(entries, snapshotEntry{
				name:    filepath.Base(m),
				size:    fi.Size(),
				modTime: fi.ModTime(),
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].modTime.After(entries[j].modTime)
	})

	return entries, nil
}
