package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeAccessDenied    = "access.denied"
	EventTypeRevenueExported = "revenue.exported"
)

// AccessDeniedEvent records a request stopped by the module gate.
type AccessDeniedEvent struct {
	BaseEvent
	UserID        int64  `json:"user_id"`
	Role          string `json:"role"`
	Module        string `json:"module"`
	RequiredLevel string `json:"required_level"`
	GrantedLevel  string `json:"granted_level"`
	Path          string `json:"path"`
}

func NewAccessDeniedEvent(userID int64, role, module, required, granted, path string) *AccessDeniedEvent {
	return &AccessDeniedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAccessDenied,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":        userID,
				"role":           role,
				"module":         module,
				"required_level": required,
				"granted_level":  granted,
				"path":           path,
			},
		},
		UserID:        userID,
		Role:          role,
		Module:        module,
		RequiredLevel: required,
		GrantedLevel:  granted,
		Path:          path,
	}
}

// RevenueExportedEvent records a CSV export and how many rows left the service.
type RevenueExportedEvent struct {
	BaseEvent
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	Rows   int    `json:"rows"`
	Masked bool   `json:"masked"`
}

func NewRevenueExportedEvent(userID int64, role string, rows int, masked bool) *RevenueExportedEvent {
	return &RevenueExportedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRevenueExported,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"role":    role,
				"rows":    rows,
				"masked":  masked,
			},
		},
		UserID: userID,
		Role:   role,
		Rows:   rows,
		Masked: masked,
	}
}
