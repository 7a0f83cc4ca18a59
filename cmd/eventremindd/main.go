package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evermail/eventdialog/config"
	"github.com/evermail/eventdialog/internal/clients/caldav"
	"github.com/evermail/eventdialog/internal/hooks"
	"github.com/evermail/eventdialog/internal/mirror"
	"github.com/evermail/eventdialog/internal/notifier"
	"github.com/evermail/eventdialog/internal/scheduler"
	"github.com/evermail/eventdialog/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to init storage: %v", err)
	}
	defer store.Close()

	cal := caldav.NewClient(cfg.CalDAVURL, cfg.CalDAVUsername, cfg.CalDAVPassword, cfg.CalDAVCalendar)
	if !cal.IsConfigured() {
		log.Println("CALDAV_URL not set, calendar mirroring disabled")
	}

	mirrorSvc := mirror.NewService(store, cal)
	hookServer := hooks.NewServer(mirrorSvc, cfg.ServerPort)

	sched := scheduler.New(store, cfg.Timezone)

	if cfg.TelegramToken != "" {
		tg, err := notifier.NewTelegram(cfg.TelegramToken)
		if err != nil {
			log.Fatalf("Failed to init telegram notifier: %v", err)
		}
		sched.SetSender(tg)
	} else {
		log.Println("TELEGRAM_BOT_TOKEN not set, reminder delivery disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := sched.Start(ctx); err != nil {
			log.Printf("Scheduler error: %v", err)
		}
	}()

	go func() {
		if err := hookServer.Start(); err != nil {
			log.Fatalf("Hook server error: %v", err)
		}
	}()

	log.Println("eventremindd started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")

	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := hookServer.Stop(shutdownCtx); err != nil {
		log.Printf("Hook server shutdown error: %v", err)
	}

	log.Println("eventremindd stopped")
}
