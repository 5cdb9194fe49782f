package reminder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	platformerrors "smartface-server-go/internal/platform/errors"
	"smartface-server-go/internal/platform/storage"
)

// Skill manages reminders backed by the shared database.
type Skill struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Skill {
	return &Skill{db: db}
}

// Add stores a reminder and returns the spoken confirmation.
func (s *Skill) Add(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "I need to know what to remind you about.", nil
	}

	rec := storage.Reminder{Text: text}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return "", platformerrors.Wrap(platformerrors.KindSkill, "reminder.add", "save reminder failed", err)
	}
	return fmt.Sprintf("Got it! I've added a reminder: %s", text), nil
}

// List speaks the active reminders in creation order.
func (s *Skill) List(ctx context.Context) (string, error) {
	var active []storage.Reminder
	err := s.db.WithContext(ctx).
		Where("completed = ?", false).
		Order("id asc").
		Find(&active).Error
	if err != nil {
		return "", platformerrors.Wrap(platformerrors.KindSkill, "reminder.list", "load reminders failed", err)
	}

	switch len(active) {
	case 0:
		return "You don't have any reminders right now.", nil
	case 1:
		return fmt.Sprintf("You have 1 reminder: %s", active[0].Text), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d reminders:\n", len(active))
	for i, rec := range active {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rec.Text)
	}
	return strings.TrimSpace(b.String()), nil
}

// Complete marks a reminder done.
func (s *Skill) Complete(ctx context.Context, id uint) (string, error) {
	var rec storage.Reminder
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Sprintf("I couldn't find reminder #%d", id), nil
		}
		return "", platformerrors.Wrap(platformerrors.KindSkill, "reminder.complete", "load reminder failed", err)
	}

	now := time.Now()
	rec.Completed = true
	rec.CompletedAt = &now
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return "", platformerrors.Wrap(platformerrors.KindSkill, "reminder.complete", "update reminder failed", err)
	}
	return fmt.Sprintf("Marked reminder as complete: %s", rec.Text), nil
}

// Delete removes a reminder entirely.
func (s *Skill) Delete(ctx context.Context, id uint) (string, error) {
	var rec storage.Reminder
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Sprintf("I couldn't find reminder #%d", id), nil
		}
		return "", platformerrors.Wrap(platformerrors.KindSkill, "reminder.delete", "load reminder failed", err)
	}
	if err := s.db.WithContext(ctx).Delete(&rec).Error; err != nil {
		return "", platformerrors.Wrap(platformerrors.KindSkill, "reminder.delete", "delete reminder failed", err)
	}
	return fmt.Sprintf("Deleted reminder: %s", rec.Text), nil
}

// ClearCompleted drops every completed reminder.
func (s *Skill) ClearCompleted(ctx context.Context) (string, error) {
	res := s.db.WithContext(ctx).Where("completed = ?", true).Delete(&storage.Reminder{})
	if res.Error != nil {
		return "", platformerrors.Wrap(platformerrors.KindSkill, "reminder.clear", "clear reminders failed", res.Error)
	}
	deleted := res.RowsAffected
	if deleted == 0 {
		return "No completed reminders to clear.", nil
	}
	suffix := "s"
	if deleted == 1 {
		suffix = ""
	}
	return fmt.Sprintf("Cleared %d completed reminder%s.", deleted, suffix), nil
}

// Count returns the number of active reminders.
func (s *Skill) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&storage.Reminder{}).
		Where("completed = ?", false).
		Count(&n).Error
	if err != nil {
		return 0, platformerrors.Wrap(platformerrors.KindSkill, "reminder.count", "count reminders failed", err)
	}
	return n, nil
}

// Active returns the active reminder records for the HTTP API.
func (s *Skill) Active(ctx context.Context) ([]storage.Reminder, error) {
	var active []storage.Reminder
	err := s.db.WithContext(ctx).
		Where("completed = ?", false).
		Order("id asc").
		Find(&active).Error
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindSkill, "reminder.active", "load reminders failed", err)
	}
	return active, nil
}
