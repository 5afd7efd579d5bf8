package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	apperrors "github.com/workbenchhq/workbench/internal/errors"
	"github.com/workbenchhq/workbench/internal/profile"
	"github.com/workbenchhq/workbench/plugin/ai"
	"github.com/workbenchhq/workbench/server/chat"
	"github.com/workbenchhq/workbench/server/middleware"
	"github.com/workbenchhq/workbench/store"
	"github.com/workbenchhq/workbench/store/db/sqlite"
)

const testSecret = "test-secret"

type staticCompletion struct {
	answer string
}

func (s *staticCompletion) Complete(_ context.Context, _, _, _ string, _ int) (*ai.CompletionResult, error) {
	return &ai.CompletionResult{Answer: s.answer, TokensUsed: 7}, nil
}

func newTestService(t *testing.T) (*APIV1Service, *echo.Echo) {
	t.Helper()
	p := &profile.Profile{Mode: "dev", Driver: "sqlite", DSN: ":memory:", JWTSecret: testSecret}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	st := store.New(driver, p)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() {
		_ = st.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := &APIV1Service{
		Secret:  testSecret,
		Profile: p,
		Store:   st,
		Pipeline: chat.NewPipeline(st, nil, &staticCompletion{answer: "the answer"}, &ai.LLMConfig{
			Model:     "gpt-4o-mini",
			HardModel: "gpt-4o",
			MaxTokens: 800,
		}, logger),
		rateLimiter: middleware.NewTenantRateLimiter(time.Second, 100),
		logger:      logger,
	}

	e := echo.New()
	service.RegisterRoutes(e)
	return service, e
}

func authHeaderFor(t *testing.T, tenantID, userID string) string {
	t.Helper()
	token, err := GenerateAccessToken(tenantID, userID, time.Now().Add(time.Hour), []byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(e *echo.Echo, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestNewAPIV1ServiceLogsProviderInitFailure(t *testing.T) {
	// Validation only checks that a provider and key are present, so an
	// unsupported provider string reaches the constructor. Its error must be
	// logged, and queries must fail closed with a configuration error.
	p := &profile.Profile{
		Mode: "dev", Driver: "sqlite", DSN: ":memory:", JWTSecret: testSecret,
		AIEnabled: true, AIAPIKey: "key",
		AIEmbeddingProvider: "openai", AIEmbeddingModel: "text-embedding-3-small", AIEmbeddingDims: 3,
		AILLMProvider: "deepseek", AILLMModel: "deepseek-chat", AILLMHardModel: "deepseek-chat",
		AIMaxTokens: 800,
	}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	st := store.New(driver, p)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() {
		_ = st.Close()
	})

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	service := NewAPIV1Service(testSecret, p, st, logger)

	require.Contains(t, buf.String(), "failed to initialize completion provider")
	require.Contains(t, buf.String(), "deepseek")

	_, err = service.Pipeline.Query(context.Background(), &chat.QueryRequest{
		TenantContext: chat.TenantContext{TenantID: "t1", UserID: "u1"},
		Query:         "hello",
	})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.ErrCodeConfiguration))
}

func TestChatEndpointRequiresAuth(t *testing.T) {
	_, e := newTestService(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/chat", "", `{"query":"hello"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChatEndpoint(t *testing.T) {
	_, e := newTestService(t)
	auth := authHeaderFor(t, "t1", "u1")

	rec := doJSON(e, http.MethodPost, "/api/v1/chat", auth, `{"query":"What changed this week?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatQueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Chat.UID)
	require.Equal(t, "the answer", resp.Response.Content)
	require.Equal(t, "ASSISTANT", resp.Response.Role)
	require.False(t, resp.CacheHit)

	// Replay of the identical query hits the cache.
	rec = doJSON(e, http.MethodPost, "/api/v1/chat", auth, `{"query":"What changed this week?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.CacheHit)
	require.Equal(t, "cache", resp.Model)
}

func TestChatEndpointEmptyQuery(t *testing.T) {
	_, e := newTestService(t)
	auth := authHeaderFor(t, "t1", "u1")

	rec := doJSON(e, http.MethodPost, "/api/v1/chat", auth, `{"query":"  "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionEndpoints(t *testing.T) {
	_, e := newTestService(t)
	auth := authHeaderFor(t, "t1", "u1")

	rec := doJSON(e, http.MethodPost, "/api/v1/chat", auth, `{"query":"first question"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp chatQueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	uid := resp.Chat.UID

	rec = doJSON(e, http.MethodGet, "/api/v1/chat/sessions", auth, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sessions []sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	require.Len(t, sessions, 1)
	require.Equal(t, "first question", sessions[0].Title)

	rec = doJSON(e, http.MethodGet, "/api/v1/chat/sessions/"+uid+"/messages", auth, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var messages []messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	require.Len(t, messages, 2)

	rec = doJSON(e, http.MethodPatch, "/api/v1/chat/sessions/"+uid, auth, `{"title":"renamed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Another tenant cannot see or touch the session.
	otherAuth := authHeaderFor(t, "t2", "u2")
	rec = doJSON(e, http.MethodGet, "/api/v1/chat/sessions/"+uid+"/messages", otherAuth, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodDelete, "/api/v1/chat/sessions/"+uid, auth, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/chat/sessions", auth, "")
	var after []sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	require.Empty(t, after)
}

func TestDocumentAndAlertEndpoints(t *testing.T) {
	_, e := newTestService(t)
	auth := authHeaderFor(t, "t1", "u1")

	rec := doJSON(e, http.MethodPost, "/api/v1/documents", auth, `{"title":"Runbook","content":"deploy steps"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/documents", auth, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var documents []documentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &documents))
	require.Len(t, documents, 1)
	require.Equal(t, "Runbook", documents[0].Title)

	rec = doJSON(e, http.MethodPost, "/api/v1/alerts", auth, `{"title":"Prod DB outage","description":"checkout impact","severity":"HIGH"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/alerts", auth, `{"title":"Bad","severity":"EXTREME"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/alerts", auth, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var alerts []alertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	require.Equal(t, "OPEN", alerts[0].Status)
}
