package router

import (
	"net/http"

	"staffdesk/app/controllers"
	"staffdesk/app/middleware"
)

func NewRouter(httpCtrl *controllers.HTTPController, authCtrl *controllers.AuthController, backupCtrl *controllers.BackupController, mw *middleware.Auth) http.Handler {
	mux := http.NewServeMux()
	// public
	mux.HandleFunc("/ping", httpCtrl.Ping)
	mux.HandleFunc("/login", authCtrl.Login)

	// backup orchestrator (admin only)
	mux.Handle("/admin/backups", mw.RequireAdmin(http.HandlerFunc(backupCtrl.Backups)))
	mux.Handle("/admin/backups/file", mw.RequireAdmin(http.HandlerFunc(backupCtrl.File)))
	mux.Handle("/admin/backups/restore", mw.RequireAdmin(http.HandlerFunc(backupCtrl.Restore)))
	mux.Handle("/admin/backups/schedule", mw.RequireAdmin(http.HandlerFunc(backupCtrl.Schedule)))
	mux.Handle("/admin/backups/retention", mw.RequireAdmin(http.HandlerFunc(backupCtrl.Retention)))
	mux.Handle("/admin/activities", mw.RequireAdmin(http.HandlerFunc(backupCtrl.Activities)))

	return mux
}
