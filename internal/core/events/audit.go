package events

import (
	"context"
	"log/slog"
)

// AuditSubscriber writes access decisions and exports to the audit log.
type AuditSubscriber struct {
	logger *slog.Logger
}

func NewAuditSubscriber(logger *slog.Logger) *AuditSubscriber {
	return &AuditSubscriber{logger: logger.With("component", "audit")}
}

// Register subscribes to every audited event type.
func (a *AuditSubscriber) Register(bus *EventBus) {
	bus.Subscribe(EventTypeAccessDenied, a.HandleAccessDenied)
	bus.Subscribe(EventTypeRevenueExported, a.HandleRevenueExported)
}

func (a *AuditSubscriber) HandleAccessDenied(ctx context.Context, event Event) error {
	e, ok := event.(*AccessDeniedEvent)
	if !ok {
		a.logger.WarnContext(ctx, "unexpected payload for access.denied", "event_id", event.EventID())
		return nil
	}
	a.logger.WarnContext(ctx, "module access denied",
		"event_id", e.ID,
		"user_id", e.UserID,
		"role", e.Role,
		"module", e.Module,
		"required_level", e.RequiredLevel,
		"granted_level", e.GrantedLevel,
		"path", e.Path)
	return nil
}

func (a *AuditSubscriber) HandleRevenueExported(ctx context.Context, event Event) error {
	e, ok := event.(*RevenueExportedEvent)
	if !ok {
		a.logger.WarnContext(ctx, "unexpected payload for revenue.exported", "event_id", event.EventID())
		return nil
	}
	a.logger.InfoContext(ctx, "revenue exported",
		"event_id", e.ID,
		"user_id", e.UserID,
		"role", e.Role,
		"rows", e.Rows,
		"masked", e.Masked)
	return nil
}
