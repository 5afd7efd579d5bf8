package store

import "context"

// ChatSession identifies a conversation thread within a tenant.
type ChatSession struct {
	ID        int32
	UID       string
	TenantID  string
	CreatorID string
	Title     string
	CreatedTs int64
	UpdatedTs int64
}

// FindChatSession is the find condition for chat sessions.
type FindChatSession struct {
	ID        *int32
	UID       *string
	TenantID  *string
	CreatorID *string
}

// UpdateChatSession is the update patch for a chat session.
type UpdateChatSession struct {
	ID        int32
	Title     *string
	UpdatedTs *int64
}

// DeleteChatSession is the delete condition for a chat session.
type DeleteChatSession struct {
	ID int32
}

// ChatMessageRole is the role of a chat message author.
type ChatMessageRole string

const (
	ChatMessageRoleUser      ChatMessageRole = "USER"
	ChatMessageRoleAssistant ChatMessageRole = "ASSISTANT"
	ChatMessageRoleSystem    ChatMessageRole = "SYSTEM"
)

// Citation is a reference from an assistant message to a retrieved item.
// RefID is the provider-local identifier (often a title fragment); after
// reconciliation SourceUID, Title and Link point at the internal record.
// An unreconciled citation keeps only RefID.
type Citation struct {
	RefID     string `json:"refId"`
	SourceUID string `json:"sourceUid,omitempty"`
	Title     string `json:"title,omitempty"`
	Link      string `json:"link,omitempty"`
	Kind      string `json:"kind,omitempty"` // "document" or "alert"
}

// ChatMessage is a single message in a chat session. Immutable once appended.
type ChatMessage struct {
	ID        int32
	UID       string
	SessionID int32
	Role      ChatMessageRole
	Content   string
	Citations []*Citation
	CreatedTs int64
}

// FindChatMessage is the find condition for chat messages.
type FindChatMessage struct {
	ID        *int32
	SessionID *int32
}

// CreateChatSession creates a chat session.
func (s *Store) CreateChatSession(ctx context.Context, create *ChatSession) (*ChatSession, error) {
	return s.driver.CreateChatSession(ctx, create)
}

// GetChatSession returns the first session matching find, or nil.
func (s *Store) GetChatSession(ctx context.Context, find *FindChatSession) (*ChatSession, error) {
	list, err := s.driver.ListChatSessions(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListChatSessions lists chat sessions.
func (s *Store) ListChatSessions(ctx context.Context, find *FindChatSession) ([]*ChatSession, error) {
	return s.driver.ListChatSessions(ctx, find)
}

// UpdateChatSession updates a chat session.
func (s *Store) UpdateChatSession(ctx context.Context, update *UpdateChatSession) (*ChatSession, error) {
	return s.driver.UpdateChatSession(ctx, update)
}

// DeleteChatSession deletes a chat session and its messages.
func (s *Store) DeleteChatSession(ctx context.Context, delete *DeleteChatSession) error {
	return s.driver.DeleteChatSession(ctx, delete)
}

// ListChatMessages lists chat messages in chronological order.
func (s *Store) ListChatMessages(ctx context.Context, find *FindChatMessage) ([]*ChatMessage, error) {
	return s.driver.ListChatMessages(ctx, find)
}

// AppendMessagePair appends a user message and the assistant reply to a
// session in one transaction. Messages are only ever appended in pairs, and
// only after an answer (cached or generated) is in hand, so a provider
// failure can never leave a half-written exchange behind.
func (s *Store) AppendMessagePair(ctx context.Context, userMsg, assistantMsg *ChatMessage) ([]*ChatMessage, error) {
	return s.driver.CreateChatMessagePair(ctx, userMsg, assistantMsg)
}
