package v1

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/workbenchhq/workbench/store"
)

type createDocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Summary string `json:"summary"`
}

type documentResponse struct {
	UID       string `json:"uid"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	CreatedTs int64  `json:"createdTs"`
	UpdatedTs int64  `json:"updatedTs"`
}

func (s *APIV1Service) createDocument(c echo.Context) error {
	tc, err := s.requireAuth(c)
	if err != nil {
		return err
	}

	var req createDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.Title == "" || req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and content are required")
	}

	now := time.Now().Unix()
	doc, err := s.Store.CreateDocument(c.Request().Context(), &store.Document{
		UID:       shortuuid.New(),
		TenantID:  tc.TenantID,
		Title:     req.Title,
		Content:   req.Content,
		Summary:   req.Summary,
		CreatedTs: now,
		UpdatedTs: now,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Index the document for similarity search. Best effort: a missing
	// embedding only means the document is reachable via recency fallback
	// until a later reindex.
	s.indexDocument(doc)

	// New content changes retrieval results, so hot replays for this tenant
	// are no longer trustworthy.
	s.Pipeline.InvalidateTenant(tc.TenantID)

	return c.JSON(http.StatusCreated, toDocumentResponse(doc))
}

func (s *APIV1Service) listDocuments(c echo.Context) error {
	tc, err := s.requireAuth(c)
	if err != nil {
		return err
	}

	documents, err := s.Store.ListDocuments(c.Request().Context(), &store.FindDocument{
		TenantID: &tc.TenantID,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]documentResponse, 0, len(documents))
	for _, doc := range documents {
		resp = append(resp, toDocumentResponse(doc))
	}
	return c.JSON(http.StatusOK, resp)
}

// indexDocument embeds the document content and upserts the vector on a
// detached goroutine. Embedding failure and sqlite's lack of vector storage
// are both tolerated.
func (s *APIV1Service) indexDocument(doc *store.Document) {
	if s.embeddingService == nil {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("document indexing panicked", slog.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		text := doc.Title + "\n" + doc.Content
		vector, err := s.embeddingService.Embed(ctx, text)
		if err != nil {
			s.logger.Warn("failed to embed document",
				slog.String("document_uid", doc.UID),
				slog.String("error", err.Error()))
			return
		}

		if _, err := s.Store.UpsertDocumentEmbedding(ctx, &store.DocumentEmbedding{
			DocumentID: doc.ID,
			Embedding:  vector,
			Model:      s.Profile.AIEmbeddingModel,
			CreatedTs:  time.Now().Unix(),
			UpdatedTs:  time.Now().Unix(),
		}); err != nil {
			s.logger.Warn("failed to store document embedding",
				slog.String("document_uid", doc.UID),
				slog.String("error", err.Error()))
		}
	}()
}

func toDocumentResponse(doc *store.Document) documentResponse {
	return documentResponse{
		UID:       doc.UID,
		Title:     doc.Title,
		Summary:   doc.Summary,
		CreatedTs: doc.CreatedTs,
		UpdatedTs: doc.UpdatedTs,
	}
}
