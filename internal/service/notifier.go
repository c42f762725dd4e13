package service

import (
	"context"
	"log/slog"

	"github.com/euRhuanOLiveira/Driverpro/internal/domain"
)

type Pusher interface {
	// Push returns how many connections received the message.
	Push(userID string, msg any) int
}

// RefreshNotifier turns import events into dashboard refreshes for the
// importing user's open connections.
type RefreshNotifier struct {
	slogger    *slog.Logger
	dashboards *DashboardService
	pusher     Pusher
}

func NewRefreshNotifier(slogger *slog.Logger, dashboards *DashboardService, pusher Pusher) *RefreshNotifier {
	return &RefreshNotifier{slogger: slogger, dashboards: dashboards, pusher: pusher}
}

func (n *RefreshNotifier) HandleImportCompleted(ctx context.Context, event domain.ImportEvent) error {
	session := domain.NewSession(event.UserID, "")
	if !session.Active() {
		n.slogger.Warn("import event without user", "action", "refresh dashboard", "profile_id", event.ProfileID)
		return nil
	}

	dash, err := n.dashboards.Load(ctx, session)
	if err != nil {
		return err
	}

	delivered := n.pusher.Push(event.UserID, domain.RefreshMessage{
		Type:      domain.RefreshMessageType,
		Import:    event,
		Dashboard: dash,
	})
	n.slogger.Debug("dashboard refresh pushed", "action", "refresh dashboard", "user_id", event.UserID, "connections", delivered)
	return nil
}
