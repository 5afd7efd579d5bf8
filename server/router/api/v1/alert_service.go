package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/workbenchhq/workbench/store"
)

type createAlertRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

type alertResponse struct {
	UID         string `json:"uid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Status      string `json:"status"`
	CreatedTs   int64  `json:"createdTs"`
	UpdatedTs   int64  `json:"updatedTs"`
}

func (s *APIV1Service) createAlert(c echo.Context) error {
	tc, err := s.requireAuth(c)
	if err != nil {
		return err
	}

	var req createAlertRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	severity := store.AlertSeverity(req.Severity)
	switch severity {
	case store.AlertSeverityLow, store.AlertSeverityMedium, store.AlertSeverityHigh, store.AlertSeverityCritical:
	case "":
		severity = store.AlertSeverityLow
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid severity")
	}

	now := time.Now().Unix()
	alert, err := s.Store.CreateAlert(c.Request().Context(), &store.Alert{
		UID:         shortuuid.New(),
		TenantID:    tc.TenantID,
		Title:       req.Title,
		Description: req.Description,
		Severity:    severity,
		Status:      store.AlertStatusOpen,
		CreatedTs:   now,
		UpdatedTs:   now,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// An alert may be injected into future contexts, so hot replays for
	// this tenant are stale.
	s.Pipeline.InvalidateTenant(tc.TenantID)

	return c.JSON(http.StatusCreated, toAlertResponse(alert))
}

func (s *APIV1Service) listAlerts(c echo.Context) error {
	tc, err := s.requireAuth(c)
	if err != nil {
		return err
	}

	alerts, err := s.Store.ListAlerts(c.Request().Context(), &store.FindAlert{
		TenantID: &tc.TenantID,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]alertResponse, 0, len(alerts))
	for _, alert := range alerts {
		resp = append(resp, toAlertResponse(alert))
	}
	return c.JSON(http.StatusOK, resp)
}

func toAlertResponse(alert *store.Alert) alertResponse {
	return alertResponse{
		UID:         alert.UID,
		Title:       alert.Title,
		Description: alert.Description,
		Severity:    string(alert.Severity),
		Status:      string(alert.Status),
		CreatedTs:   alert.CreatedTs,
		UpdatedTs:   alert.UpdatedTs,
	}
}
