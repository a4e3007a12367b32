package article

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/pkg/errors"
	"github.com/meridianpsych/clinic-api/pkg/logger"
)

type Store interface {
	Create(ctx context.Context, draft *model.ArticleDraft) error
	Get(ctx context.Context, id uuid.UUID) (*model.ArticleDraft, error)
	Update(ctx context.Context, draft *model.ArticleDraft) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*model.ArticleDraft, error)
}

// Drafter is the LLM collaborator producing draft payloads.
type Drafter interface {
	DraftArticle(ctx context.Context, conversation []model.ChatMessage) (*model.DraftPayload, error)
}

// Service manages LLM-assisted article drafts. The persisted
// conversation is replayed on every assist turn so drafting can resume
// across sessions.
type Service struct {
	articles Store
	drafter  Drafter
	logger   *logger.Logger
}

func NewService(articles Store, drafter Drafter, l *logger.Logger) *Service {
	return &Service{articles: articles, drafter: drafter, logger: l}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDraftRequest) (*model.ArticleDraft, error) {
	draft := &model.ArticleDraft{
		Title:       req.Title,
		Slug:        slugify(req.Title),
		Status:      model.DraftStatusDrafting,
		AuthorEmail: req.AuthorEmail,
		Tags:        []string{},
	}
	if err := s.articles.Create(ctx, draft); err != nil {
		return nil, errors.Internal(err)
	}
	return draft, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.ArticleDraft, error) {
	draft, err := s.articles.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("article draft", err)
	}
	return draft, nil
}

func (s *Service) List(ctx context.Context) ([]*model.ArticleDraft, error) {
	drafts, err := s.articles.List(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return drafts, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.articles.Get(ctx, id); err != nil {
		return errors.NotFound("article draft", err)
	}
	if err := s.articles.Delete(ctx, id); err != nil {
		return errors.Internal(err)
	}
	return nil
}

// Assist runs one drafting turn: append the editor's message, ask the
// model for an updated draft, apply it and persist the transcript. A
// reply violating the JSON contract fails the turn without touching
// the stored draft.
func (s *Service) Assist(ctx context.Context, id uuid.UUID, req *model.AssistRequest) (*model.AssistResponse, error) {
	draft, err := s.articles.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("article draft", err)
	}
	if draft.Status == model.DraftStatusPublished {
		return nil, errors.Conflict("published articles cannot be edited", nil)
	}

	var conversation []model.ChatMessage
	if len(draft.Conversation) > 0 {
		if err := json.Unmarshal(draft.Conversation, &conversation); err != nil {
			return nil, errors.Internal(err)
		}
	}
	conversation = append(conversation, model.ChatMessage{
		Role:    model.ChatRoleUser,
		Content: req.Message,
	})

	payload, err := s.drafter.DraftArticle(ctx, conversation)
	if err != nil {
		return nil, errors.BadRequest("drafting assistant returned an unusable reply", err)
	}

	conversation = append(conversation, model.ChatMessage{
		Role:    model.ChatRoleAssistant,
		Content: payload.Reply,
	})
	transcript, err := json.Marshal(conversation)
	if err != nil {
		return nil, errors.Internal(err)
	}

	draft.Title = payload.Title
	draft.Slug = payload.Slug
	draft.Excerpt = payload.Excerpt
	draft.Content = payload.Content
	draft.Category = payload.Category
	draft.Tags = payload.Tags
	draft.Conversation = transcript

	if err := s.articles.Update(ctx, draft); err != nil {
		return nil, errors.Internal(err)
	}
	return &model.AssistResponse{Draft: draft, Reply: payload.Reply}, nil
}

// MarkReview moves a draft into the review state.
func (s *Service) MarkReview(ctx context.Context, id uuid.UUID) (*model.ArticleDraft, error) {
	draft, err := s.articles.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("article draft", err)
	}
	if draft.Content == "" {
		return nil, errors.Conflict("draft has no content to review", nil)
	}
	draft.Status = model.DraftStatusReview
	if err := s.articles.Update(ctx, draft); err != nil {
		return nil, errors.Internal(err)
	}
	return draft, nil
}

func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
