// internal/scheduler/scheduler.go
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/internhub/internhub-backend/internal/config"
	"github.com/internhub/internhub-backend/internal/services"
)

// Scheduler runs the periodic report housekeeping: reminder emails for
// missing weekly reports and closing cycles past their end date.
type Scheduler struct {
	cron          *cron.Cron
	cfg           *config.Config
	reports       *services.ReportService
	notifications *services.NotificationService
}

func New(cfg *config.Config, reports *services.ReportService, notifications *services.NotificationService) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		cfg:           cfg,
		reports:       reports,
		notifications: notifications,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Reports.ReminderCron, s.runReportReminders); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@daily", s.closeFinishedCycles); err != nil {
		return err
	}
	s.cron.Start()
	logrus.WithField("reminder_cron", s.cfg.Reports.ReminderCron).Info("Scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logrus.Info("Scheduler stopped")
}

func (s *Scheduler) runReportReminders() {
	now := time.Now()
	cycles, err := s.reports.OverdueCycles(now)
	if err != nil {
		logrus.WithError(err).Error("Failed to collect overdue report cycles")
		return
	}

	for i := range cycles {
		week := services.CurrentWeek(cycles[i].StartDate, now)
		if err := s.notifications.SendReportReminder(&cycles[i], week); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"cycle_id": cycles[i].ID,
				"week":     week,
			}).Warn("Failed to send report reminder")
		}
	}

	logrus.WithField("reminders", len(cycles)).Info("Report reminder run complete")
}

func (s *Scheduler) closeFinishedCycles() {
	closed, err := s.reports.CloseFinishedCycles(time.Now())
	if err != nil {
		logrus.WithError(err).Error("Failed to close finished report cycles")
		return
	}
	if closed > 0 {
		logrus.WithField("closed", closed).Info("Closed finished report cycles")
	}
}
