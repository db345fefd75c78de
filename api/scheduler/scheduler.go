// Package scheduler runs recurring background jobs for the platform.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/lexlink/lexlink-api/databases"
	"github.com/lexlink/lexlink-api/models"
	templates "github.com/lexlink/lexlink-api/templates/html"
)

const reminderJobTimeout = 2 * time.Minute

// Scheduler owns the cron runner and the jobs it drives
type Scheduler struct {
	cron *cron.Cron
	CDB  databases.ConsultationDatabase
	UDB  databases.UserDatabase
}

// New builds a scheduler with its jobs registered but not started
func New(cdb databases.ConsultationDatabase, udb databases.UserDatabase) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(),
		CDB:  cdb,
		UDB:  udb,
	}

	// reminders go out every morning for the day's consultations
	if _, err := s.cron.AddFunc("0 8 * * *", s.sendConsultationReminders); err != nil {
		return nil, err
	}

	return s, nil
}

// Start launches the cron runner in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	zap.S().Info("scheduler started")
}

// Stop halts the cron runner and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("scheduler stopped")
}

// sendConsultationReminders emails every client with a consultation still
// scheduled for today
func (s *Scheduler) sendConsultationReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), reminderJobTimeout)
	defer cancel()

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	consultations, err := s.CDB.Find(ctx, bson.M{
		"consultation.status": models.ConsultationStatusScheduled,
		"consultation.scheduledAt": bson.M{
			"$gte": primitive.NewDateTimeFromTime(dayStart),
			"$lt":  primitive.NewDateTimeFromTime(dayEnd),
		},
	})
	if err != nil {
		zap.S().Errorw("failed to load consultations for reminders", "error", err)
		return
	}

	zap.S().Infow("sending consultation reminders", "count", len(consultations))

	for _, c := range consultations {
		client, err := s.UDB.FindOne(ctx, bson.M{"_id": c.Details.ClientID})
		if err != nil {
			zap.S().Warnw("reminder skipped, client not found", "clientID", c.Details.ClientID)
			continue
		}
		lawyer, err := s.UDB.FindOne(ctx, bson.M{"_id": c.Details.LawyerID})
		if err != nil {
			zap.S().Warnw("reminder skipped, lawyer not found", "lawyerID", c.Details.LawyerID)
			continue
		}

		date := c.Details.ScheduledAt.Time().Format("2006-01-02")
		sendReminderEmail(client.Details.Email, client.Details.Name, lawyer.Details.Name, date, c.Details.Time)
	}
}

func sendReminderEmail(toEmail, clientName, lawyerName, date, timeSlot string) {
	if os.Getenv("SENDGRID_API_KEY") == "" || toEmail == "" {
		return
	}
	from := mail.NewEmail("LexLink", "no-reply@lexlink.legal")
	subject := "Reminder: your LexLink consultation is today"
	to := mail.NewEmail(clientName, toEmail)
	plain := fmt.Sprintf("Reminder: your consultation with %s is today (%s) at %s.", lawyerName, date, timeSlot)
	html := templates.RenderConsultationReminder(clientName, lawyerName, date, timeSlot)
	msg := mail.NewSingleEmail(from, subject, to, plain, html)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	if _, err := client.Send(msg); err != nil {
		zap.S().Warnw("failed to send consultation reminder", "error", err)
	}
}
