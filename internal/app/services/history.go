package services

import (
	"context"

	evbus "github.com/asaskevich/EventBus"
	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"smartface-server-go/internal/domain/eventbus"
	"smartface-server-go/internal/platform/logging"
	"smartface-server-go/internal/platform/storage"
)

// HistoryRecorder persists every routed turn for the history API. It hangs
// off the event bus so the pipeline itself never touches the database.
type HistoryRecorder struct {
	db     *gorm.DB
	logger *logging.Logger
}

func NewHistoryRecorder(db *gorm.DB, bus evbus.Bus, logger *logging.Logger) (*HistoryRecorder, error) {
	r := &HistoryRecorder{db: db, logger: logger}
	if err := bus.Subscribe(eventbus.EventResponseGenerated, r.record); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *HistoryRecorder) record(data eventbus.ResponseEventData) {
	var entities datatypes.JSON
	if len(data.Entities) > 0 {
		raw, err := sonic.Marshal(data.Entities)
		if err != nil {
			r.logger.WarnTag("Storage", "marshal entities failed: %v", err)
		} else {
			entities = datatypes.JSON(raw)
		}
	}

	rec := storage.Exchange{
		SessionID:  data.SessionID,
		Transcript: data.Transcript,
		Intent:     string(data.Intent),
		Confidence: data.Confidence,
		Entities:   entities,
		Response:   data.Response,
	}
	if err := r.db.Create(&rec).Error; err != nil {
		r.logger.ErrorTag("Storage", "record exchange failed: %v", err)
	}
}

// Recent returns the latest turns, newest first.
func (r *HistoryRecorder) Recent(ctx context.Context, limit int) ([]storage.Exchange, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []storage.Exchange
	err := r.db.WithContext(ctx).
		Order("id desc").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
