package initialize

import (
	"fmt"
	"net/http"

	"staffdesk/app/controllers"
	"staffdesk/app/db"
	jwtutil "staffdesk/app/jwt"
	"staffdesk/app/middleware"
	"staffdesk/app/models"
	"staffdesk/app/pipeline"
	"staffdesk/app/repo"
	"staffdesk/app/services"
	"staffdesk/config"
	"staffdesk/global"
	"staffdesk/router"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	Cfg     *config.Config
	DB      *gorm.DB
	Router  http.Handler
	Backups *services.BackupService
	Users   *services.UserService
}

func Build(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	global.Config = *cfg

	gdb, err := db.Connect(db.Config{
		Driver:   cfg.DB.Driver,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Pass,
		DBName:   cfg.DB.Name,
		Path:     cfg.DB.Path,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := gdb.AutoMigrate(&models.User{}, &models.Backup{}, &models.Activity{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Pass, DB: cfg.Redis.DB})
	}

	// Services
	userRepo := repo.NewUserRepository(gdb)
	backupRepo := repo.NewBackupRepository(gdb)
	activityRepo := repo.NewActivityRepository(gdb)
	userSvc := services.NewUserService(userRepo)
	if err := userSvc.EnsureAdmin("admin", "admin123"); err != nil {
		global.Logger.Warn().Err(err).Msg("seed admin user failed")
	}
	backupSvc, err := services.NewBackupService(cfg, pipeline.NewDriver(cfg), backupRepo, activityRepo, rdb)
	if err != nil {
		return nil, fmt.Errorf("backup service: %w", err)
	}

	// Controllers
	signer := &jwtutil.Signer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, ExpMin: cfg.JWT.ExpMin}
	httpCtrl := controllers.NewHTTPController()
	authCtrl := controllers.NewAuthController(userSvc, signer)
	backupCtrl := controllers.NewBackupController(backupSvc)
	mw := &middleware.Auth{Signer: signer}

	h := router.NewRouter(httpCtrl, authCtrl, backupCtrl, mw)
	h = middleware.Logging(h)

	return &App{Cfg: cfg, DB: gdb, Router: h, Backups: backupSvc, Users: userSvc}, nil
}
