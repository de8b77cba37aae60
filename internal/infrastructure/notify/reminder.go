package notify

import (
	"context"
	"fmt"

	"aquaops/internal/core/types"
	"aquaops/internal/domain"
	"aquaops/internal/domain/catalogs/moderator"
	"aquaops/internal/domain/registers/usage"
	"aquaops/internal/infrastructure/notify/whatsapp"
	"aquaops/pkg/logger"
)

// Reminder nudges moderators whose round for today is still open.
type Reminder struct {
	usage      usage.Repository
	moderators moderator.Repository
	sender     Sender
	clock      *types.Clock
}

// NewReminder creates a reminder. A nil sender logs instead of sending.
func NewReminder(usageRepo usage.Repository, moderators moderator.Repository, sender Sender, clock *types.Clock) *Reminder {
	return &Reminder{usage: usageRepo, moderators: moderators, sender: sender, clock: clock}
}

// ReminderText is the message sent for an open round.
func ReminderText(m *moderator.Moderator, u *usage.BottleUsage) string {
	return fmt.Sprintf(
		"Hi %s, your round for %s is still open.\nRemaining: %d filled, %d empty.\nPlease return bottles and mark the day done.",
		m.Name, u.Day, u.Remaining, u.Empty,
	)
}

// Run sends one reminder per open BottleUsage of today. It returns the
// number of reminders sent. Failures for one moderator do not stop the rest.
func (r *Reminder) Run(ctx context.Context) (int, error) {
	today := r.clock.Today()
	filter := domain.ListFilter{From: today, To: today, Limit: 500}
	open, err := r.usage.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("list usage for %s: %w", today, err)
	}

	sent := 0
	for _, u := range open.Items {
		if u.Done || (u.Remaining == 0 && u.Empty == 0) {
			continue
		}
		m, err := r.moderators.GetByID(ctx, u.ModeratorID)
		if err != nil {
			logger.Warn(ctx, "reminder skipped, moderator not found", "moderator_id", u.ModeratorID, "error", err)
			continue
		}
		if !m.Active || whatsapp.NormalizePhone(m.Phone) == "" {
			continue
		}
		text := ReminderText(m, u)
		if r.sender == nil {
			logger.Info(ctx, "reminder not sent, whatsapp disabled", "moderator_id", m.ID, "text", text)
			continue
		}
		if _, err := r.sender.SendText(ctx, m.Phone, text); err != nil {
			logger.Error(ctx, "reminder failed", "moderator_id", m.ID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}
