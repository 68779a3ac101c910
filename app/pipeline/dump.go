package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"staffdesk/app/dto"
	"staffdesk/config"
	"staffdesk/global"
)

// Driver invokes the external dump and restore utilities against the portal
// database. The password travels via MYSQL_PWD in the child environment,
// never on the command line and never into the logs.
type Driver struct {
	Host          string
	Port          int
	User          string
	Password      string
	Database      string
	DumpBinary    string
	RestoreBinary string
	Timeout       time.Duration
}

func NewDriver(cfg *config.Config) *Driver {
	timeout := time.Duration(cfg.Backup.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Driver{
		Host:          cfg.DB.Host,
		Port:          cfg.DB.Port,
		User:          cfg.DB.User,
		Password:      cfg.DB.Pass,
		Database:      cfg.DB.Name,
		DumpBinary:    cfg.Backup.DumpBinary,
		RestoreBinary: cfg.Backup.RestoreBinary,
		Timeout:       timeout,
	}
}

// Dump serializes the database into outPath. data-only and schema-only
// narrow the dump scope; the remaining types produce a full dump and are
// recorded as-is in the backup metadata.
func (d *Driver) Dump(ctx context.Context, outPath string, typ dto.BackupType) error {
	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	args := []string{
		"-h", d.Host,
		"-P", strconv.Itoa(d.Port),
		"-u", d.User,
		"--single-transaction",
		"--routines",
		"--triggers",
	}
	switch typ {
	case dto.TypeDataOnly:
		args = append(args, "--no-create-info")
	case dto.TypeSchemaOnly:
		args = append(args, "--no-data")
	}
	args = append(args, "--result-file="+outPath, d.Database)

	cmd := exec.CommandContext(ctx, d.DumpBinary, args...)
	cmd.Env = append(os.Environ(), "MYSQL_PWD="+d.Password)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	global.Logger.Info().Str("database", d.Database).Str("path", outPath).Msg("dump started")
	start := time.Now()
	if err := cmd.Run(); err != nil {
		// never leave a partial dump behind
		_ = os.Remove(outPath)
		return fmt.Errorf("%s failed: %w: %s", d.DumpBinary, err, firstLine(stderr.String()))
	}
	global.Logger.Info().Dur("duration", time.Since(start)).Msg("dump completed")
	return nil
}

// Restore applies a plaintext dump file to the database.
func (d *Driver) Restore(ctx context.Context, dumpPath string) error {
	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	file, err := os.Open(dumpPath)
	if err != nil {
		return fmt.Errorf("open dump file: %w", err)
	}
	defer file.Close()

	cmd := exec.CommandContext(ctx, d.RestoreBinary,
		"-h", d.Host,
		"-P", strconv.Itoa(d.Port),
		"-u", d.User,
		d.Database,
	)
	cmd.Env = append(os.Environ(), "MYSQL_PWD="+d.Password)
	cmd.Stdin = file
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	global.Logger.Info().Str("database", d.Database).Msg("restore started")
	start := time.Now()
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w: %s", d.RestoreBinary, err, firstLine(stderr.String()))
	}
	global.Logger.Info().Dur("duration", time.Since(start)).Msg("restore completed")
	return nil
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
