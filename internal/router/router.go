package router

import (
	"mood-diary/internal/config"
	"mood-diary/internal/handler"
	"mood-diary/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and the /api routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	entryHandler := handler.NewEntryHandler(db, cfg.App.MaxMediaBytes)
	mediaHandler := handler.NewMediaHandler(db, cfg.App.MaxMediaBytes)
	authHandler := handler.NewAuthHandler(db, cfg.Session.ExpireHours)

	// public: the diary list and media are readable without a session
	// (single-owner deployment); every mutation goes through SessionAuth
	api.GET("/entries", entryHandler.ListEntries)
	api.GET("/media", mediaHandler.ListMedia)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(
		middleware.SessionAuth(db),
		middleware.AuditMiddleware(db),
	)

	protected.POST("/entries", entryHandler.SaveEntry)
	protected.POST("/delete", entryHandler.DeleteEntry)

	protected.POST("/media", mediaHandler.CreateMedia)
	protected.DELETE("/media", mediaHandler.DeleteMedia)

	protected.GET("/me", handler.GetMe)
	protected.POST("/profile/password", handler.ChangePassword(db))

	statsHandler := handler.NewStatsHandler(db)
	protected.GET("/stats/monthly", statsHandler.GetMonthlyStats)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	backupHandler := handler.NewBackupHandler(db, cfg.Backup.Key, cfg.Backup.Dir)
	protected.POST("/backups", backupHandler.CreateBackup)
	protected.GET("/backups", backupHandler.ListBackups)
	protected.GET("/backups/:id/download", backupHandler.DownloadBackup)
	protected.DELETE("/backups/:id", backupHandler.DeleteBackup)

	logHandler := handler.NewLogHandler(db)
	protected.GET("/logs", logHandler.ListLogs)

	return r
}
