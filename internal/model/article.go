package model

import (
	"encoding/json"

	"github.com/lib/pq"
)

type DraftStatus string

const (
	DraftStatusDrafting  DraftStatus = "drafting"
	DraftStatusReview    DraftStatus = "review"
	DraftStatusPublished DraftStatus = "published"
)

// ArticleDraft is one patient-education article being authored with
// LLM assistance. Conversation stores the full chat transcript so a
// draft can be resumed.
type ArticleDraft struct {
	Base
	Title        string          `db:"title" json:"title"`
	Slug         string          `db:"slug" json:"slug"`
	Excerpt      string          `db:"excerpt" json:"excerpt,omitempty"`
	Content      string          `db:"content" json:"content,omitempty"`
	Category     string          `db:"category" json:"category,omitempty"`
	Tags         pq.StringArray  `db:"tags" json:"tags"`
	Status       DraftStatus     `db:"status" json:"status"`
	AuthorEmail  string          `db:"author_email" json:"author_email"`
	Conversation json.RawMessage `db:"conversation" json:"conversation,omitempty"`
}

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// DraftPayload is the strict JSON shape the model must return for an
// assist turn. Free-text replies are rejected, not regex-salvaged.
type DraftPayload struct {
	Title    string   `json:"title"`
	Slug     string   `json:"slug"`
	Excerpt  string   `json:"excerpt"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Reply    string   `json:"reply"`
}

type CreateDraftRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	AuthorEmail string `json:"author_email" binding:"required,email"`
}

type AssistRequest struct {
	Message string `json:"message" binding:"required,max=8000"`
}

type AssistResponse struct {
	Draft *ArticleDraft `json:"draft"`
	Reply string        `json:"reply"`
}
