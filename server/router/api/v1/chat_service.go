package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/workbenchhq/workbench/internal/errors"
	"github.com/workbenchhq/workbench/server/chat"
	"github.com/workbenchhq/workbench/store"
)

type chatQueryRequest struct {
	// ChatID optionally continues an existing session.
	ChatID string `json:"chatId"`
	Query  string `json:"query"`
}

type citationResponse struct {
	RefID     string `json:"refId"`
	SourceUID string `json:"sourceUid,omitempty"`
	Title     string `json:"title,omitempty"`
	Link      string `json:"link,omitempty"`
	Kind      string `json:"kind,omitempty"`
}

type messageResponse struct {
	UID       string             `json:"uid"`
	Role      string             `json:"role"`
	Content   string             `json:"content"`
	Citations []citationResponse `json:"citations,omitempty"`
	CreatedTs int64              `json:"createdTs"`
}

type sessionResponse struct {
	UID       string `json:"uid"`
	Title     string `json:"title"`
	CreatedTs int64  `json:"createdTs"`
	UpdatedTs int64  `json:"updatedTs"`
}

type chatQueryResponse struct {
	Chat     sessionResponse `json:"chat"`
	Response messageResponse `json:"response"`
	CacheHit bool            `json:"cacheHit"`
	Model    string          `json:"model"`
}

type sessionPatchRequest struct {
	Title string `json:"title"`
}

func (s *APIV1Service) handleChatQuery(c echo.Context) error {
	tc, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	if !s.rateLimiter.Allow(tc.TenantID) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
	}

	var req chatQueryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	resp, err := s.Pipeline.Query(c.Request().Context(), &chat.QueryRequest{
		TenantContext: *tc,
		SessionUID:    req.ChatID,
		Query:         req.Query,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, chatQueryResponse{
		Chat:     toSessionResponse(resp.Session),
		Response: toMessageResponse(resp.Message),
		CacheHit: resp.CacheHit,
		Model:    resp.Model,
	})
}

func (s *APIV1Service) listChatSessions(c echo.Context) error {
	tc, err := s.requireAuth(c)
	if err != nil {
		return err
	}

	sessions, err := s.Store.ListChatSessions(c.Request().Context(), &store.FindChatSession{
		TenantID:  &tc.TenantID,
		CreatorID: &tc.UserID,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		resp = append(resp, toSessionResponse(session))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) updateChatSession(c echo.Context) error {
	tc, err := s.requireAuth(c)
	if err != nil {
		return err
	}

	session, err := s.resolveOwnedSession(c, tc)
	if err != nil {
		return err
	}

	var req sessionPatchRequest
	if err := c.Bind(&req); err != nil || req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	now := time.Now().Unix()
	updated, err := s.Store.UpdateChatSession(c.Request().Context(), &store.UpdateChatSession{
		ID:        session.ID,
		Title:     &req.Title,
		UpdatedTs: &now,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toSessionResponse(updated))
}

func (s *APIV1Service) deleteChatSession(c echo.Context) error {
	tc, err := s.requireAuth(c)
	if err != nil {
		return err
	}

	session, err := s.resolveOwnedSession(c, tc)
	if err != nil {
		return err
	}

	if err := s.Store.DeleteChatSession(c.Request().Context(), &store.DeleteChatSession{ID: session.ID}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *APIV1Service) listChatMessages(c echo.Context) error {
	tc, err := s.requireAuth(c)
	if err != nil {
		return err
	}

	session, err := s.resolveOwnedSession(c, tc)
	if err != nil {
		return err
	}

	messages, err := s.Store.ListChatMessages(c.Request().Context(), &store.FindChatMessage{
		SessionID: &session.ID,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]messageResponse, 0, len(messages))
	for _, msg := range messages {
		resp = append(resp, toMessageResponse(msg))
	}
	return c.JSON(http.StatusOK, resp)
}

// resolveOwnedSession loads the :uid session and enforces tenant scoping.
func (s *APIV1Service) resolveOwnedSession(c echo.Context, tc *chat.TenantContext) (*store.ChatSession, error) {
	uid := c.Param("uid")
	session, err := s.Store.GetChatSession(c.Request().Context(), &store.FindChatSession{
		UID:      &uid,
		TenantID: &tc.TenantID,
	})
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if session == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return session, nil
}

func toSessionResponse(session *store.ChatSession) sessionResponse {
	return sessionResponse{
		UID:       session.UID,
		Title:     session.Title,
		CreatedTs: session.CreatedTs,
		UpdatedTs: session.UpdatedTs,
	}
}

func toMessageResponse(msg *store.ChatMessage) messageResponse {
	citations := make([]citationResponse, 0, len(msg.Citations))
	for _, citation := range msg.Citations {
		citations = append(citations, citationResponse{
			RefID:     citation.RefID,
			SourceUID: citation.SourceUID,
			Title:     citation.Title,
			Link:      citation.Link,
			Kind:      citation.Kind,
		})
	}
	return messageResponse{
		UID:       msg.UID,
		Role:      string(msg.Role),
		Content:   msg.Content,
		Citations: citations,
		CreatedTs: msg.CreatedTs,
	}
}

// toHTTPError maps pipeline error codes to transport status codes. Only
// configuration and storage failures surface as 5xx; invalid input is the
// caller's fault.
func toHTTPError(err error) error {
	switch errors.GetCodeFromError(err, errors.ErrCodeStorageFailure) {
	case errors.ErrCodeInvalidArgument:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.ErrCodeUnauthorized:
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.ErrCodeConfiguration:
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
