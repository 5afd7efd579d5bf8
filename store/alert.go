package store

import "context"

// AlertSeverity is the severity level of a workspace alert.
type AlertSeverity string

const (
	AlertSeverityLow      AlertSeverity = "LOW"
	AlertSeverityMedium   AlertSeverity = "MEDIUM"
	AlertSeverityHigh     AlertSeverity = "HIGH"
	AlertSeverityCritical AlertSeverity = "CRITICAL"
)

// AlertStatus is the lifecycle status of a workspace alert.
type AlertStatus string

const (
	AlertStatusOpen     AlertStatus = "OPEN"
	AlertStatusResolved AlertStatus = "RESOLVED"
	AlertStatusIgnored  AlertStatus = "IGNORED"
)

// Alert represents a workspace security alert.
type Alert struct {
	ID          int32
	UID         string
	TenantID    string
	Title       string
	Description string
	Severity    AlertSeverity
	Status      AlertStatus
	CreatedTs   int64
	UpdatedTs   int64
}

// FindAlert is the find condition for alerts.
type FindAlert struct {
	ID       *int32
	UID      *string
	TenantID *string
	Status   *AlertStatus
	Limit    int
}

// CreateAlert creates an alert.
func (s *Store) CreateAlert(ctx context.Context, create *Alert) (*Alert, error) {
	return s.driver.CreateAlert(ctx, create)
}

// ListAlerts lists alerts ordered by update time descending.
func (s *Store) ListAlerts(ctx context.Context, find *FindAlert) ([]*Alert, error) {
	return s.driver.ListAlerts(ctx, find)
}
