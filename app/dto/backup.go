package dto

import "time"

// The string values below are part of the portal API contract; the frontend
// sends and renders them verbatim.

type BackupType string

const (
	TypeFull         BackupType = "full"
	TypeIncremental  BackupType = "incremental"
	TypeDifferential BackupType = "differential"
	TypeDataOnly     BackupType = "data-only"
	TypeSchemaOnly   BackupType = "schema-only"
)

func (t BackupType) Valid() bool {
	switch t {
	case TypeFull, TypeIncremental, TypeDifferential, TypeDataOnly, TypeSchemaOnly:
		return true
	}
	return false
}

type BackupStatus string

const (
	StatusCompleted BackupStatus = "completed"
	StatusFailed    BackupStatus = "failed"
)

type CompressionLevel string

const (
	CompressionNone   CompressionLevel = "none"
	CompressionLow    CompressionLevel = "low"
	CompressionMedium CompressionLevel = "medium"
	CompressionHigh   CompressionLevel = "high"
)

func (c CompressionLevel) Valid() bool {
	switch c {
	case CompressionNone, CompressionLow, CompressionMedium, CompressionHigh:
		return true
	}
	return false
}

type EncryptionMode string

const (
	EncryptionNone     EncryptionMode = "none"
	EncryptionAES      EncryptionMode = "aes"
	EncryptionChaCha20 EncryptionMode = "chacha20"
)

func (e EncryptionMode) Valid() bool {
	switch e {
	case EncryptionNone, EncryptionAES, EncryptionChaCha20:
		return true
	}
	return false
}

type ActivityAction string

const (
	ActionBackup        ActivityAction = "backup"
	ActionRestore       ActivityAction = "restore"
	ActionRestoreFailed ActivityAction = "restore_failed"
	ActionDelete        ActivityAction = "delete"
	ActionSchedule      ActivityAction = "schedule"
)

type CreateBackupRequest struct {
	Type        BackupType       `json:"type"`
	Location    string           `json:"location"`
	Compression CompressionLevel `json:"compression"`
	Encryption  EncryptionMode   `json:"encryption"`
	Name        string           `json:"name,omitempty"`
	PerformedBy string           `json:"performed_by,omitempty"`
}

type RestoreBackupRequest struct {
	BackupID    string `json:"backup_id"`
	RestoreType string `json:"restore_type"`
	PerformedBy string `json:"performed_by,omitempty"`
}

type ScheduleBackupRequest struct {
	Frequency       string           `json:"frequency"`
	Time            string           `json:"time"`
	RetentionPeriod int              `json:"retention_period"`
	MaxBackups      int              `json:"max_backups"`
	Type            BackupType       `json:"type"`
	Location        string           `json:"location"`
	Compression     CompressionLevel `json:"compression"`
	Encryption      EncryptionMode   `json:"encryption"`
	PerformedBy     string           `json:"performed_by,omitempty"`
}

type RetentionRequest struct {
	MaxBackups  int    `json:"max_backups"`
	PerformedBy string `json:"performed_by,omitempty"`
}

type BackupResponse struct {
	BackupID  string            `json:"backup_id"`
	Name      string            `json:"name"`
	Type      BackupType        `json:"type"`
	Status    BackupStatus      `json:"status"`
	Size      string            `json:"size"`
	Location  string            `json:"location"`
	CreatedBy string            `json:"created_by"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}

type BackupFileResponse struct {
	Path        string `json:"path"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

type ScheduleResponse struct {
	ScheduleID string            `json:"schedule_id"`
	Parameters map[string]string `json:"parameters"`
	CreatedAt  time.Time         `json:"created_at"`
}

type ActivityResponse struct {
	Action      ActivityAction    `json:"action"`
	EntityType  string            `json:"entity_type"`
	EntityID    string            `json:"entity_id"`
	Description string            `json:"description"`
	PerformedBy string            `json:"performed_by"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	PerformedAt time.Time         `json:"performed_at"`
}
