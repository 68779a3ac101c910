package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"staffdesk/app/dto"
	"staffdesk/app/models"
	"staffdesk/app/pipeline"
	"staffdesk/app/repo"
	"staffdesk/app/storage"
	"staffdesk/config"
	"staffdesk/global"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrBackupNotFound     = errors.New("backup not found")
	ErrBackupFileNotFound = errors.New("backup file not found")
	ErrRestoreFailed      = errors.New("failed to restore database")
)

// SimulatedBackupMarker labels placeholder artifacts written when the dump
// utility is unavailable. It must never appear in a real dump.
const SimulatedBackupMarker = "SIMULATED BACKUP - NOT A REAL DATABASE DUMP"

// Dumper produces and applies database dumps. *pipeline.Driver is the real
// implementation; tests substitute their own.
type Dumper interface {
	Dump(ctx context.Context, outPath string, typ dto.BackupType) error
	Restore(ctx context.Context, dumpPath string) error
}

// BackupService is the backup/restore orchestrator. It is stateless between
// calls: every operation resolves its own metadata row and artifact path.
type BackupService struct {
	database   string
	store      *storage.Store
	dumper     Dumper
	backups    *repo.BackupRepository
	activities *repo.ActivityRepository
	key        []byte
	locks      *lockKeeper
}

func NewBackupService(cfg *config.Config, dumper Dumper, backups *repo.BackupRepository, activities *repo.ActivityRepository, rdb *redis.Client) (*BackupService, error) {
	store := storage.New(cfg.Backup.StoragePath)
	if err := store.EnsureDirs(); err != nil {
		return nil, err
	}
	var key []byte
	if cfg.Backup.EncryptionKey != "" {
		var err error
		key, err = hex.DecodeString(cfg.Backup.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("decode backup encryption key: %w", err)
		}
		if len(key) != 32 {
			return nil, pipeline.ErrBadKeySize
		}
	}
	return &BackupService{
		database:   cfg.DB.Name,
		store:      store,
		dumper:     dumper,
		backups:    backups,
		activities: activities,
		key:        key,
		locks:      newLockKeeper(rdb),
	}, nil
}

// Create runs the full pipeline: dump, optional compression, optional
// encryption, then metadata and audit writes. A failing dump degrades to a
// clearly marked placeholder artifact instead of aborting, so scheduled
// backups keep their audit cadence through transient tool outages. Metadata
// is written only after the artifact is durable.
func (s *BackupService) Create(ctx context.Context, req dto.CreateBackupRequest) (*dto.BackupResponse, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("invalid backup type %q", req.Type)
	}
	if req.Compression == "" {
		req.Compression = dto.CompressionNone
	}
	if req.Encryption == "" {
		req.Encryption = dto.EncryptionNone
	}
	if !req.Compression.Valid() {
		return nil, fmt.Errorf("invalid compression level %q", req.Compression)
	}
	if !req.Encryption.Valid() {
		return nil, fmt.Errorf("invalid encryption mode %q", req.Encryption)
	}
	if req.Encryption != dto.EncryptionNone && len(s.key) != 32 {
		return nil, errors.New("backup encryption key is not configured")
	}

	backupID := newRef("BKP")
	name := req.Name
	if name == "" {
		name = "Backup-" + time.Now().Format("2006-01-02")
	}
	canonical := s.store.Abs(backupID + "_" + safeFileName(name) + ".sql")

	if err := s.dumper.Dump(ctx, canonical, req.Type); err != nil {
		global.Logger.Warn().Err(err).Str("backup_id", backupID).Msg("dump failed, writing placeholder artifact")
		if werr := s.writePlaceholder(canonical, req.Type); werr != nil {
			return nil, werr
		}
	}

	compression := req.Compression
	if compression != dto.CompressionNone {
		compressed, err := pipeline.Compress(canonical, compression)
		if err != nil {
			global.Logger.Warn().Err(err).Str("backup_id", backupID).Msg("compression failed, keeping uncompressed artifact")
			compression = dto.CompressionNone
		} else {
			canonical = compressed
		}
	}

	encryption := req.Encryption
	if encryption != dto.EncryptionNone {
		encrypted, err := pipeline.Encrypt(canonical, encryption, s.key)
		if err != nil {
			global.Logger.Warn().Err(err).Str("backup_id", backupID).Msg("encryption failed, keeping plaintext artifact")
			encryption = dto.EncryptionNone
		} else {
			canonical = encrypted
		}
	}

	rel, err := s.store.Rel(canonical)
	if err != nil {
		return nil, err
	}
	size, err := s.store.Size(rel)
	if err != nil {
		return nil, err
	}

	record := &models.Backup{
		BackupID:  backupID,
		Name:      name,
		Type:      string(req.Type),
		Status:    string(dto.StatusCompleted),
		Size:      formatSize(size),
		Location:  req.Location,
		CreatedBy: req.PerformedBy,
		Metadata: models.JSONMap{
			"compression": string(compression),
			"encryption":  string(encryption),
			"file_path":   rel,
		},
	}
	// collision on the random id is effectively impossible, but the unique
	// index is authoritative; regenerate and rename the artifact on conflict
	for attempt := 0; ; attempt++ {
		err := s.backups.Create(record)
		if err == nil {
			break
		}
		if !repo.IsDuplicateKey(err) || attempt >= 2 {
			return nil, fmt.Errorf("persist backup record: %w", err)
		}
		fresh := newRef("BKP")
		renamed := s.store.Abs(fresh + strings.TrimPrefix(rel, record.BackupID))
		if rerr := os.Rename(canonical, renamed); rerr != nil {
			return nil, fmt.Errorf("rename artifact after id collision: %w", rerr)
		}
		canonical = renamed
		if rel, err = s.store.Rel(canonical); err != nil {
			return nil, err
		}
		record.BackupID = fresh
		record.ID = 0
		record.Metadata["file_path"] = rel
	}

	if err := s.audit(dto.ActionBackup, "database", record.BackupID, req.PerformedBy,
		fmt.Sprintf("Created %s backup %q (%s)", record.Type, record.Name, record.Size), nil); err != nil {
		return nil, err
	}
	resp := toBackupResponse(record)
	return &resp, nil
}

// List returns every backup record, newest first.
func (s *BackupService) List() ([]dto.BackupResponse, error) {
	rows, err := s.backups.ListNewestFirst()
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	out := make([]dto.BackupResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toBackupResponse(&rows[i]))
	}
	return out, nil
}

// File resolves a backup's artifact for download. "never existed" and
// "metadata exists but bytes are gone" surface as distinct errors.
func (s *BackupService) File(backupID string) (*dto.BackupFileResponse, error) {
	record, err := s.backups.FindByBackupID(backupID)
	if err != nil {
		return nil, fmt.Errorf("find backup: %w", err)
	}
	if record == nil {
		return nil, ErrBackupNotFound
	}
	rel := record.Metadata["file_path"]
	if !s.store.Exists(rel) {
		return nil, ErrBackupFileNotFound
	}
	return &dto.BackupFileResponse{
		Path:        s.store.Abs(rel),
		FileName:    filepath.Base(rel),
		ContentType: contentTypeFor(rel),
	}, nil
}

// Restore reverses the creation pipeline in the opposite order (decrypt,
// then decompress) and applies the plaintext dump to the database. All
// temporary intermediates are removed on every exit path.
func (s *BackupService) Restore(ctx context.Context, req dto.RestoreBackupRequest) error {
	release, err := s.locks.acquire(ctx, req.BackupID)
	if err != nil {
		return err
	}
	defer release()

	record, err := s.backups.FindByBackupID(req.BackupID)
	if err != nil {
		return fmt.Errorf("find backup: %w", err)
	}
	if record == nil {
		return ErrBackupNotFound
	}
	rel := record.Metadata["file_path"]
	if !s.store.Exists(rel) {
		return ErrBackupFileNotFound
	}

	path := s.store.Abs(rel)
	var temps []string
	defer func() {
		for _, t := range temps {
			if rerr := os.Remove(t); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
				global.Logger.Warn().Err(rerr).Str("path", t).Msg("temp cleanup failed")
			}
		}
	}()

	if strings.HasSuffix(path, ".enc") {
		dst := filepath.Join(s.store.TempDir(), strings.TrimSuffix(filepath.Base(path), ".enc"))
		if err := pipeline.Decrypt(path, dst, s.key); err != nil {
			global.Logger.Error().Err(err).Str("backup_id", req.BackupID).Msg("decrypt stage failed")
			return ErrRestoreFailed
		}
		temps = append(temps, dst)
		path = dst
	}
	if strings.HasSuffix(path, ".gz") {
		dst := filepath.Join(s.store.TempDir(), strings.TrimSuffix(filepath.Base(path), ".gz"))
		if err := pipeline.Decompress(path, dst); err != nil {
			global.Logger.Error().Err(err).Str("backup_id", req.BackupID).Msg("decompress stage failed")
			return ErrRestoreFailed
		}
		temps = append(temps, dst)
		path = dst
	}

	if err := s.dumper.Restore(ctx, path); err != nil {
		global.Logger.Error().Err(err).Str("backup_id", req.BackupID).Msg("restore invocation failed")
		if aerr := s.audit(dto.ActionRestoreFailed, "backup", req.BackupID, req.PerformedBy,
			fmt.Sprintf("Restore of backup %q failed", record.Name), nil); aerr != nil {
			global.Logger.Error().Err(aerr).Msg("audit write failed")
		}
		return ErrRestoreFailed
	}

	return s.audit(dto.ActionRestore, "backup", req.BackupID, req.PerformedBy,
		fmt.Sprintf("Restored backup %q (%s restore)", record.Name, req.RestoreType), nil)
}

// Delete removes artifact bytes before the metadata row, so a crash in
// between leaves a detectable dangling reference rather than silent loss.
func (s *BackupService) Delete(ctx context.Context, backupID, performedBy string) error {
	release, err := s.locks.acquire(ctx, backupID)
	if err != nil {
		return err
	}
	defer release()

	record, err := s.backups.FindByBackupID(backupID)
	if err != nil {
		return fmt.Errorf("find backup: %w", err)
	}
	if record == nil {
		return ErrBackupNotFound
	}
	rel := record.Metadata["file_path"]
	if s.store.Exists(rel) {
		if err := s.store.Remove(rel); err != nil {
			return err
		}
	}
	if err := s.backups.DeleteByBackupID(backupID); err != nil {
		return fmt.Errorf("delete backup record: %w", err)
	}
	return s.audit(dto.ActionDelete, "backup", backupID, performedBy,
		fmt.Sprintf("Deleted backup %q (%s)", record.Name, record.Size), nil)
}

// Schedule durably records a desired recurrence. It never creates a backup
// itself; an external cron-equivalent reads active schedules and drives
// Create and Delete against them.
func (s *BackupService) Schedule(req dto.ScheduleBackupRequest) (*dto.ScheduleResponse, error) {
	if req.Frequency == "" {
		return nil, errors.New("missing schedule frequency")
	}
	if req.Type == "" {
		req.Type = dto.TypeFull
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("invalid backup type %q", req.Type)
	}

	scheduleID := newRef("SCHEDULE")
	params := models.JSONMap{
		"frequency":        req.Frequency,
		"time":             req.Time,
		"retention_period": strconv.Itoa(req.RetentionPeriod),
		"max_backups":      strconv.Itoa(req.MaxBackups),
		"type":             string(req.Type),
		"location":         req.Location,
		"compression":      string(req.Compression),
		"encryption":       string(req.Encryption),
	}
	desc := fmt.Sprintf("Scheduled %s %s backups at %s (retain %d days, max %d)",
		req.Frequency, req.Type, req.Time, req.RetentionPeriod, req.MaxBackups)
	if err := s.audit(dto.ActionSchedule, "database", scheduleID, req.PerformedBy, desc, params); err != nil {
		return nil, err
	}
	return &dto.ScheduleResponse{ScheduleID: scheduleID, Parameters: params, CreatedAt: time.Now()}, nil
}

// Schedules lists persisted schedule declarations for the external invoker.
func (s *BackupService) Schedules() ([]dto.ScheduleResponse, error) {
	rows, err := s.activities.ListByAction(string(dto.ActionSchedule))
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	out := make([]dto.ScheduleResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, dto.ScheduleResponse{
			ScheduleID: a.EntityID,
			Parameters: a.Metadata,
			CreatedAt:  a.PerformedAt,
		})
	}
	return out, nil
}

// EnforceRetention deletes the oldest completed backups beyond maxBackups
// through the ordinary delete path, and returns how many were removed.
func (s *BackupService) EnforceRetention(ctx context.Context, maxBackups int, performedBy string) (int, error) {
	if maxBackups <= 0 {
		return 0, errors.New("max_backups must be positive")
	}
	rows, err := s.backups.ListNewestFirst()
	if err != nil {
		return 0, fmt.Errorf("list backups: %w", err)
	}
	deleted := 0
	for i := maxBackups; i < len(rows); i++ {
		if err := s.Delete(ctx, rows[i].BackupID, performedBy); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// Activities returns the most recent audit trail entries.
func (s *BackupService) Activities(limit int) ([]dto.ActivityResponse, error) {
	rows, err := s.activities.ListRecent(limit)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	out := make([]dto.ActivityResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, dto.ActivityResponse{
			Action:      dto.ActivityAction(a.Action),
			EntityType:  a.EntityType,
			EntityID:    a.EntityID,
			Description: a.Description,
			PerformedBy: a.PerformedBy,
			Metadata:    a.Metadata,
			PerformedAt: a.PerformedAt,
		})
	}
	return out, nil
}

func (s *BackupService) audit(action dto.ActivityAction, entityType, entityID, performedBy, description string, meta models.JSONMap) error {
	err := s.activities.Append(&models.Activity{
		Action:      string(action),
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		PerformedBy: performedBy,
		Metadata:    meta,
	})
	if err != nil {
		return fmt.Errorf("persist activity record: %w", err)
	}
	return nil
}

func (s *BackupService) writePlaceholder(path string, typ dto.BackupType) error {
	content := fmt.Sprintf("-- %s\n-- database: %s\n-- generated_at: %s\n-- requested_type: %s\n-- The dump utility was unavailable when this backup ran.\n",
		SimulatedBackupMarker, s.database, time.Now().Format(time.RFC3339), typ)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write placeholder artifact: %w", err)
	}
	return nil
}

func toBackupResponse(b *models.Backup) dto.BackupResponse {
	return dto.BackupResponse{
		BackupID:  b.BackupID,
		Name:      b.Name,
		Type:      dto.BackupType(b.Type),
		Status:    dto.BackupStatus(b.Status),
		Size:      b.Size,
		Location:  b.Location,
		CreatedBy: b.CreatedBy,
		Metadata:  b.Metadata,
		CreatedAt: b.CreatedAt,
	}
}

func contentTypeFor(path string) string {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return "application/gzip"
	case strings.HasSuffix(path, ".enc"):
		return "application/octet-stream"
	default:
		return "application/sql"
	}
}

const refAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newRef derives a PREFIX-XXXXXXXX identifier from a fresh random UUID.
func newRef(prefix string) string {
	u := uuid.New()
	b := make([]byte, 8)
	for i := range b {
		b[i] = refAlphabet[int(u[i])%len(refAlphabet)]
	}
	return prefix + "-" + string(b)
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

func safeFileName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "")
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.2f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.2f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
