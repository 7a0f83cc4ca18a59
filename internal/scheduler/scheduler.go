package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/evermail/eventdialog/internal/storage"
)

type MessageSender interface {
	SendMessage(chatID int64, text string) error
}

// Scheduler delivers due event reminders. It polls the delivery store once
// a minute and sends each due reminder to its recipient's chat.
type Scheduler struct {
	cron     *cron.Cron
	storage  *storage.Storage
	timezone *time.Location
	sender   MessageSender
}

func New(store *storage.Storage, tz *time.Location) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(tz)),
		storage:  store,
		timezone: tz,
	}
}

func (s *Scheduler) SetSender(sender MessageSender) {
	s.sender = sender
}

func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc("* * * * *", s.checkDeliveries); err != nil {
		return fmt.Errorf("add delivery check: %w", err)
	}

	s.cron.Start()
	log.Printf("Scheduler started (TZ: %s)", s.timezone)

	<-ctx.Done()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Scheduler stopped")
}

func (s *Scheduler) checkDeliveries() {
	if s.sender == nil {
		return
	}

	now := time.Now().In(s.timezone)
	due, err := s.storage.ListDueDeliveries(now)
	if err != nil {
		log.Printf("Error listing due deliveries: %v", err)
		return
	}

	for _, d := range due {
		route, err := s.storage.GetRecipientRoute(d.UserID)
		if err != nil || route == nil {
			log.Printf("No route for recipient %s, skipping delivery %d", d.UserID, d.ID)
			continue
		}

		text := fmt.Sprintf("🔔 <b>%s</b>\n\nstarts at %s",
			d.EventTitle, d.EventStart.In(s.timezone).Format("02.01.2006 15:04"))
		if err := s.sender.SendMessage(route.TelegramChatID, text); err != nil {
			log.Printf("Error sending delivery %d to chat %d: %v", d.ID, route.TelegramChatID, err)
			continue
		}

		if err := s.storage.MarkDeliverySent(d.ID, now); err != nil {
			log.Printf("Error marking delivery %d as sent: %v", d.ID, err)
		}
	}
}
