package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"mood-diary/internal/config"
	"mood-diary/internal/database"
	"mood-diary/internal/models"
	"mood-diary/internal/router"
	"mood-diary/internal/util"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	addUser := flag.String("adduser", "", "create a user and exit, format user:password")
	flag.Parse()

	// load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// ensure basic directories exist
	if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
		log.Fatalf("create data dir: %v", err)
	}
	if err := ensureDir(cfg.Backup.Dir); err != nil {
		log.Fatalf("create backup dir: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// one-shot user bootstrap; there is no registration endpoint
	if *addUser != "" {
		name, password, ok := strings.Cut(*addUser, ":")
		if !ok || name == "" || password == "" {
			log.Fatal("adduser: expected user:password")
		}
		user := models.User{
			Username:     name,
			PasswordHash: util.HashPassword(password),
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("create user: %v", err)
		}
		log.Printf("created user %q (id=%d)", user.Username, user.ID)
		return
	}

	// setup router
	r := router.SetupRouter(cfg, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
