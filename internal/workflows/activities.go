package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/usecases"
)

// RecorderActivities holds the activity implementations for the recorder workflow.
type RecorderActivities struct {
	History *usecases.HistoryService
}

// SaveHistory writes a history record for a finished session and returns its ID.
func (a *RecorderActivities) SaveHistory(ctx context.Context, ev domain.SessionEvent) (string, error) {
	rec := usecases.RecordFromEvent(&ev)
	if err := a.History.Record(ctx, &rec); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return "", temporal.NewNonRetryableApplicationError(err.Error(), "InvalidInput", err)
		}
		return "", fmt.Errorf("save history for %s: %w", ev.SessionID, err)
	}
	slog.InfoContext(ctx, "history saved", "session_id", ev.SessionID, "record_id", rec.ID, "user_id", rec.UserID)
	return rec.ID, nil
}
