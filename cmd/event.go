package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/revenue-management/internal/access"
	"github.com/frahmantamala/revenue-management/internal/core/events"
	"github.com/frahmantamala/revenue-management/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish sample audit events through the bus to check the audit subscriber`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [event-type]",
	Short:     "Publish a sample audit event",
	Long:      `Publish a sample access.denied or revenue.exported event to the event bus`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{events.EventTypeAccessDenied, events.EventTypeRevenueExported},
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(args[0])
	},
}

var (
	eventUserID int64
	eventRole   string
)

func sampleEvent(eventType string) (events.Event, error) {
	switch eventType {
	case events.EventTypeAccessDenied:
		return events.NewAccessDeniedEvent(eventUserID, eventRole,
			string(access.ModuleReports), access.LevelReadWrite.String(), access.LevelNone.String(), "/api/v1/revenues/export"), nil
	case events.EventTypeRevenueExported:
		return events.NewRevenueExportedEvent(eventUserID, eventRole, 1, !isUnmasked(eventRole)), nil
	default:
		return nil, fmt.Errorf("unknown event type %q", eventType)
	}
}

func publishTestEvent(eventType string) error {
	lg := logger.LoggerWrapper()

	event, err := sampleEvent(eventType)
	if err != nil {
		return err
	}

	bus := events.NewEventBus(lg)
	events.NewAuditSubscriber(lg).Register(bus)

	lg.Info("publishing sample event", "event_type", event.EventType(), "event_id", event.EventID())
	if err := bus.Publish(context.Background(), event); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	bus.Wait()
	lg.Info("sample event published")
	return nil
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventUserID, "user-id", 1, "User id recorded on the event")
	publishEventCmd.Flags().StringVar(&eventRole, "role", string(access.RoleTeamMember), "Role recorded on the event")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}

func isUnmasked(role string) bool {
	return role == string(access.RoleAdmin) || role == string(access.RoleSuperAdmin)
}
