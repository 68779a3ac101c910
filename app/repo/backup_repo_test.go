package repo

import (
	"path/filepath"
	"testing"
	"time"

	"staffdesk/app/db"
	"staffdesk/app/models"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Connect(db.Config{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "meta.db")})
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&models.Backup{}, &models.Activity{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func TestBackupUniqueIndex(t *testing.T) {
	r := NewBackupRepository(newTestDB(t))
	if err := r.Create(&models.Backup{BackupID: "BKP-AAAAAAAA", Type: "full", Status: "completed"}); err != nil {
		t.Fatal(err)
	}
	err := r.Create(&models.Backup{BackupID: "BKP-AAAAAAAA", Type: "full", Status: "completed"})
	if err == nil {
		t.Fatal("expected unique constraint violation")
	}
	if !IsDuplicateKey(err) {
		t.Errorf("IsDuplicateKey(%v) = false", err)
	}
}

func TestIsDuplicateKeyNil(t *testing.T) {
	if IsDuplicateKey(nil) {
		t.Error("IsDuplicateKey(nil) = true")
	}
}

func TestListNewestFirstOrdering(t *testing.T) {
	gdb := newTestDB(t)
	r := NewBackupRepository(gdb)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"BKP-OLD00000", "BKP-MID00000", "BKP-NEW00000"} {
		b := &models.Backup{BackupID: id, Type: "full", Status: "completed", CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := r.Create(b); err != nil {
			t.Fatal(err)
		}
	}
	list, err := r.ListNewestFirst()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[0].BackupID != "BKP-NEW00000" || list[2].BackupID != "BKP-OLD00000" {
		t.Errorf("order = %v", []string{list[0].BackupID, list[1].BackupID, list[2].BackupID})
	}
}

func TestFindByBackupIDAbsent(t *testing.T) {
	r := NewBackupRepository(newTestDB(t))
	b, err := r.FindByBackupID("BKP-MISSING0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b != nil {
		t.Errorf("found %+v for absent id", b)
	}
}

func TestDeleteByBackupID(t *testing.T) {
	r := NewBackupRepository(newTestDB(t))
	if err := r.Create(&models.Backup{BackupID: "BKP-DEL00000", Type: "full", Status: "completed"}); err != nil {
		t.Fatal(err)
	}
	if err := r.DeleteByBackupID("BKP-DEL00000"); err != nil {
		t.Fatal(err)
	}
	b, err := r.FindByBackupID("BKP-DEL00000")
	if err != nil || b != nil {
		t.Errorf("record survived delete: %+v, %v", b, err)
	}
}

func TestActivityMetadataRoundTrip(t *testing.T) {
	r := NewActivityRepository(newTestDB(t))
	err := r.Append(&models.Activity{
		Action:     "schedule",
		EntityType: "database",
		EntityID:   "SCHEDULE-ABCD1234",
		Metadata:   models.JSONMap{"frequency": "daily", "time": "02:00"},
	})
	if err != nil {
		t.Fatal(err)
	}
	rows, err := r.ListByAction("schedule")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Metadata["frequency"] != "daily" {
		t.Errorf("rows = %+v", rows)
	}
}
