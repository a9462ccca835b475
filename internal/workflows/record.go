package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/campusnav/internal/core/domain"
)

// DefaultTaskQueue is the queue the recorder worker polls.
const DefaultTaskQueue = "campusnav-history"

// WorkflowID returns the ID used to record one trip of a session. Each plan
// bumps the generation, so a re-planned session records every trip while bus
// redeliveries of the same trip start nothing new.
func WorkflowID(sessionID string, generation int) string {
	return fmt.Sprintf("record-navigation-%s-%d", sessionID, generation)
}

// RecordNavigationWorkflow stores a finished session in the user's history.
func RecordNavigationWorkflow(ctx workflow.Context, ev domain.SessionEvent) (string, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Recording navigation session", "sessionID", ev.SessionID, "generation", ev.Generation, "status", ev.Status)

	if !ev.Status.Terminal() {
		return "", temporal.NewNonRetryableApplicationError(
			"session is not finished", "InvalidInput", nil, ev.SessionID, string(ev.Status))
	}

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			MaximumAttempts:        5,
			NonRetryableErrorTypes: []string{"InvalidInput"},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	var recordID string
	if err := workflow.ExecuteActivity(ctx, "SaveHistory", ev).Get(ctx, &recordID); err != nil {
		return "", err
	}

	logger.Info("Navigation session recorded", "sessionID", ev.SessionID, "recordID", recordID)
	return recordID, nil
}
