package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"

	"staffdesk/app/dto"
	"staffdesk/app/middleware"
	"staffdesk/app/services"
	"staffdesk/global"
)

// BackupController exposes the orchestrator over the admin API. Every
// response body is the {success, data, error} envelope.
type BackupController struct {
	backups *services.BackupService
}

func NewBackupController(backups *services.BackupService) *BackupController {
	return &BackupController{backups: backups}
}

// Backups dispatches on method: GET lists, POST creates, DELETE removes.
func (c *BackupController) Backups(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c.list(w)
	case http.MethodPost:
		c.create(w, r)
	case http.MethodDelete:
		c.delete(w, r)
	default:
		writeResult(w, http.StatusMethodNotAllowed, dto.Fail("Method not allowed"))
	}
}

func (c *BackupController) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBackupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResult(w, http.StatusBadRequest, dto.Fail("Invalid payload"))
		return
	}
	if !req.Type.Valid() {
		writeResult(w, http.StatusBadRequest, dto.Fail("Invalid backup type"))
		return
	}
	if req.Compression != "" && !req.Compression.Valid() {
		writeResult(w, http.StatusBadRequest, dto.Fail("Invalid compression level"))
		return
	}
	if req.Encryption != "" && !req.Encryption.Valid() {
		writeResult(w, http.StatusBadRequest, dto.Fail("Invalid encryption mode"))
		return
	}
	req.PerformedBy = performedBy(r, req.PerformedBy)
	resp, err := c.backups.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, dto.OK(resp))
}

func (c *BackupController) list(w http.ResponseWriter) {
	backups, err := c.backups.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, dto.OK(backups))
}

func (c *BackupController) delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeResult(w, http.StatusBadRequest, dto.Fail("Missing backup id"))
		return
	}
	if err := c.backups.Delete(r.Context(), id, performedBy(r, "")); err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, dto.OK(map[string]string{"backup_id": id}))
}

// File streams the artifact bytes with the content type derived from the
// artifact suffix.
func (c *BackupController) File(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeResult(w, http.StatusBadRequest, dto.Fail("Missing backup id"))
		return
	}
	info, err := c.backups.File(id)
	if err != nil {
		writeError(w, err)
		return
	}
	f, err := os.Open(info.Path)
	if err != nil {
		writeError(w, services.ErrBackupFileNotFound)
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", info.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+info.FileName+`"`)
	if _, err := io.Copy(w, f); err != nil {
		global.Logger.Warn().Err(err).Str("backup_id", id).Msg("artifact download interrupted")
	}
}

func (c *BackupController) Restore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeResult(w, http.StatusMethodNotAllowed, dto.Fail("Method not allowed"))
		return
	}
	var req dto.RestoreBackupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResult(w, http.StatusBadRequest, dto.Fail("Invalid payload"))
		return
	}
	if req.BackupID == "" {
		writeResult(w, http.StatusBadRequest, dto.Fail("Missing backup id"))
		return
	}
	req.PerformedBy = performedBy(r, req.PerformedBy)
	if err := c.backups.Restore(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, dto.OK(map[string]string{"backup_id": req.BackupID, "restored": "true"}))
}

// Schedule declares a recurrence on POST and lists declared schedules on GET.
func (c *BackupController) Schedule(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		schedules, err := c.backups.Schedules()
		if err != nil {
			writeError(w, err)
			return
		}
		writeResult(w, http.StatusOK, dto.OK(schedules))
	case http.MethodPost:
		var req dto.ScheduleBackupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeResult(w, http.StatusBadRequest, dto.Fail("Invalid payload"))
			return
		}
		req.PerformedBy = performedBy(r, req.PerformedBy)
		resp, err := c.backups.Schedule(req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeResult(w, http.StatusOK, dto.OK(resp))
	default:
		writeResult(w, http.StatusMethodNotAllowed, dto.Fail("Method not allowed"))
	}
}

// Retention is the hook the external schedule invoker calls to prune old
// backups down to max_backups.
func (c *BackupController) Retention(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeResult(w, http.StatusMethodNotAllowed, dto.Fail("Method not allowed"))
		return
	}
	var req dto.RetentionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResult(w, http.StatusBadRequest, dto.Fail("Invalid payload"))
		return
	}
	if req.MaxBackups <= 0 {
		writeResult(w, http.StatusBadRequest, dto.Fail("max_backups must be positive"))
		return
	}
	deleted, err := c.backups.EnforceRetention(r.Context(), req.MaxBackups, performedBy(r, req.PerformedBy))
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, dto.OK(map[string]int{"deleted": deleted}))
}

func (c *BackupController) Activities(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	activities, err := c.backups.Activities(limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, dto.OK(activities))
}

func writeResult(w http.ResponseWriter, status int, resp dto.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// writeError maps service sentinels onto the stable user-safe messages the
// frontend matches on; anything else is logged in full and masked.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrBackupNotFound):
		writeResult(w, http.StatusNotFound, dto.Fail("Backup not found"))
	case errors.Is(err, services.ErrBackupFileNotFound):
		writeResult(w, http.StatusNotFound, dto.Fail("Backup file not found"))
	case errors.Is(err, services.ErrRestoreFailed):
		writeResult(w, http.StatusInternalServerError, dto.Fail("Failed to restore database"))
	default:
		global.Logger.Error().Err(err).Msg("backup operation failed")
		writeResult(w, http.StatusInternalServerError, dto.Fail("Internal server error"))
	}
}

func performedBy(r *http.Request, fallback string) string {
	if claims := middleware.GetClaims(r.Context()); claims != nil && claims.Username != "" {
		return claims.Username
	}
	return fallback
}
