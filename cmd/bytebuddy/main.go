package main

import (
	"log"

	"github.com/joho/godotenv"

	"bytebuddy/internal/app"
	"bytebuddy/internal/chat"
	"bytebuddy/internal/config"
	"bytebuddy/internal/responder"
	"bytebuddy/internal/scheduler"
	"bytebuddy/internal/session"
	"bytebuddy/internal/store"
	"bytebuddy/internal/users"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	fs, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}

	dir := users.NewDirectory(fs)
	if cfg.SeedDemo {
		if err := dir.SeedDemo(); err != nil {
			log.Printf("failed to seed demo account: %v", err)
		}
	}

	tracker := session.NewTracker(fs, dir)
	chats := chat.NewStore(fs)

	ui := newUI()
	a := app.New(dir, tracker, chats, responder.NewRules(), ui, app.Options{
		RevealInterval: cfg.RevealInterval,
		RevealChunk:    cfg.RevealChunk,
	})
	ui.app = a

	if cfg.BackupCron != "" {
		sched := scheduler.New(cfg.BackupCron)
		sched.SetSnapshotFunc(func() error {
			return fs.Snapshot(cfg.BackupDir)
		})
		if err := sched.Start(); err != nil {
			log.Printf("failed to start scheduler: %v", err)
		} else {
			defer sched.Stop()
		}
	}

	ui.Run()
}
