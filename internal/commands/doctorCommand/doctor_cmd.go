package doctorCommand

import (
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	probing "github.com/prometheus-community/pro-bing"
	"github.com/spf13/cobra"

	"github.com/owui-tools/chatbak/internal/config"
	backupservice "github.com/owui-tools/chatbak/internal/services/backupService"
	gitservice "github.com/owui-tools/chatbak/internal/services/gitService"
	"github.com/owui-tools/chatbak/internal/utils/capabilities"
	"github.com/owui-tools/chatbak/internal/utils/convert"
)

// NewDoctorCmd returns the 'doctor' command: preflight checks for a
// backup run. Each check prints [OK] or [FAIL] and the command fails if
// any check does.
func NewDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that a backup run would succeed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cmd.Flags(), cfgFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(cfg.AutoPush); err != nil {
				return err
			}

			checks := []func() (bool, string){
				checkGitBinary,
				func() (bool, string) { return checkDatabase(cfg.DbPath) },
				func() (bool, string) { return checkDiskSpace(cfg.BackupPath) },
			}
			if cfg.AutoPush {
				checks = append(checks, func() (bool, string) { return checkRemote(cfg.GithubRepo) })
			}

			failures := 0
			for _, check := range checks {
				ok, msg := check()
				report(ok, msg)
				if !ok {
					failures++
				}
			}

			if failures > 0 {
				return fmt.Errorf("%d check(s) failed", failures)
			}
			return nil
		},
	}

	config.BindFlags(cmd.Flags())

	return cmd
}

func report(ok bool, msg string) {
	if ok {
		fmt.Printf("[OK]   %s\n", msg)
	} else {
		fmt.Printf("[FAIL] %s\n", msg)
	}
}

// The sync path uses go-git, so a missing git binary is informational
// only. It still helps operators who want to inspect the backup repo.
func checkGitBinary() (bool, string) {
	path, err := capabilities.Which("git")
	if err != nil {
		return true, "git binary not on PATH (not required, go-git is used for sync)"
	}
	return true, "git binary: " + path
}

func checkDatabase(dbPath string) (bool, string) {
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return false, fmt.Sprintf("database %s: %v", dbPath, err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRow("PRAGMA quick_check").Scan(&result); err != nil {
		return false, fmt.Sprintf("database %s: %v", dbPath, err)
	}
	if result != "ok" {
		return false, fmt.Sprintf("database %s failed integrity check: %s", dbPath, result)
	}
	return true, fmt.Sprintf("database %s passes quick_check", dbPath)
}

func checkDiskSpace(backupPath string) (bool, string) {
	// The backup dir may not exist yet; check its parent then.
	target := backupPath
	free, err := backupservice.FreeSpace(target)
	if err != nil {
		target = filepath.Dir(backupPath)
		free, err = backupservice.FreeSpace(target)
	}
	if err != nil {
		return false, fmt.Sprintf("free space on %s: %v", target, err)
	}
	return true, fmt.Sprintf("free space on %s: %s", target, convert.BytesToHumanReadable(free))
}

// checkRemote probes the remote host: an HTTP HEAD for http(s) remotes,
// a TCP connect to the ssh port for SSH remotes.
func checkRemote(remote string) (bool, string) {
	host, err := gitservice.RemoteHost(remote)
	if err != nil {
		return false, err.Error()
	}

	if gitservice.IsHTTPRemote(remote) {
		client := http.Client{Timeout: 5 * time.Second}
		resp, err := client.Head(remote)
		if err != nil {
			return false, fmt.Sprintf("remote %s unreachable: %v", host, err)
		}
		resp.Body.Close()
		return true, fmt.Sprintf("remote %s reachable (HTTP %d)", host, resp.StatusCode)
	}

	return checkSSHHost(host, "22")
}

// checkSSHHost connects to host:port. When the port cannot be reached it
// falls back to an ICMP ping; hosts that answer neither are only failed
// when name resolution or the ping itself errors, since GitHub and most
// git hosts filter ICMP echo.
func checkSSHHost(host, port string) (bool, string) {
	conn, dialErr := net.DialTimeout("tcp", net.JoinHostPort(host, port), 5*time.Second)
	if dialErr == nil {
		conn.Close()
		return true, fmt.Sprintf("remote %s reachable (tcp/%s)", host, port)
	}

	pinger, err := probing.NewPinger(host)
	if err != nil {
		return false, fmt.Sprintf("remote %s unreachable: %v", host, dialErr)
	}
	pinger.SetPrivileged(false)
	pinger.Count = 3
	pinger.Timeout = 5 * time.Second
	if err := pinger.Run(); err != nil {
		return false, fmt.Sprintf("remote %s unreachable: %v", host, dialErr)
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv > 0 {
		return true, fmt.Sprintf("remote %s answers ping but not tcp/%s: %v", host, port, dialErr)
	}
	return true, fmt.Sprintf("remote %s: tcp/%s blocked and no ping replies (ICMP may be filtered), continuing", host, port)
}
