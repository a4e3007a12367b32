package article

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/pkg/errors"
)

type stubStore struct {
	draft   *model.ArticleDraft
	updated []*model.ArticleDraft
}

func (s *stubStore) Create(ctx context.Context, d *model.ArticleDraft) error {
	d.ID = uuid.New()
	s.draft = d
	return nil
}
func (s *stubStore) Get(ctx context.Context, id uuid.UUID) (*model.ArticleDraft, error) {
	return s.draft, nil
}
func (s *stubStore) Update(ctx context.Context, d *model.ArticleDraft) error {
	s.updated = append(s.updated, d)
	return nil
}
func (s *stubStore) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (s *stubStore) List(ctx context.Context) ([]*model.ArticleDraft, error) {
	return []*model.ArticleDraft{s.draft}, nil
}

type stubDrafter struct {
	payload      *model.DraftPayload
	err          error
	conversation []model.ChatMessage
}

func (s *stubDrafter) DraftArticle(ctx context.Context, conversation []model.ChatMessage) (*model.DraftPayload, error) {
	s.conversation = conversation
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "understanding-ssris", slugify("Understanding SSRIs"))
	assert.Equal(t, "adhd-in-adults-faq", slugify("  ADHD in Adults: FAQ!  "))
	assert.Equal(t, "", slugify("!!!"))
}

func TestCreateDraft(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, &stubDrafter{}, nil)

	draft, err := svc.Create(context.Background(), &model.CreateDraftRequest{
		Title:       "Understanding SSRIs",
		AuthorEmail: "editor@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "understanding-ssris", draft.Slug)
	assert.Equal(t, model.DraftStatusDrafting, draft.Status)
}

func TestAssistAppliesPayloadAndTranscript(t *testing.T) {
	draft := &model.ArticleDraft{
		Title:  "Untitled",
		Status: model.DraftStatusDrafting,
	}
	draft.ID = uuid.New()
	store := &stubStore{draft: draft}

	drafter := &stubDrafter{payload: &model.DraftPayload{
		Title:    "Understanding SSRIs",
		Slug:     "understanding-ssris",
		Excerpt:  "What to expect.",
		Content:  "# Understanding SSRIs",
		Category: "medication",
		Tags:     []string{"ssri"},
		Reply:    "Drafted an outline.",
	}}
	svc := NewService(store, drafter, nil)

	resp, err := svc.Assist(context.Background(), draft.ID, &model.AssistRequest{
		Message: "Write an article about starting SSRIs.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Drafted an outline.", resp.Reply)
	assert.Equal(t, "Understanding SSRIs", resp.Draft.Title)
	assert.Equal(t, []string{"ssri"}, []string(resp.Draft.Tags))

	// The model saw the editor's message as the latest user turn.
	require.Len(t, drafter.conversation, 1)
	assert.Equal(t, model.ChatRoleUser, drafter.conversation[0].Role)

	// The persisted transcript has both turns.
	var transcript []model.ChatMessage
	require.NoError(t, json.Unmarshal(resp.Draft.Conversation, &transcript))
	require.Len(t, transcript, 2)
	assert.Equal(t, model.ChatRoleAssistant, transcript[1].Role)
	assert.Equal(t, "Drafted an outline.", transcript[1].Content)
}

func TestAssistReplaysStoredConversation(t *testing.T) {
	prior, err := json.Marshal([]model.ChatMessage{
		{Role: model.ChatRoleUser, Content: "Start an article about sleep hygiene."},
		{Role: model.ChatRoleAssistant, Content: "Drafted it."},
	})
	require.NoError(t, err)

	draft := &model.ArticleDraft{Status: model.DraftStatusDrafting, Conversation: prior}
	draft.ID = uuid.New()
	store := &stubStore{draft: draft}

	drafter := &stubDrafter{payload: &model.DraftPayload{
		Title:   "Sleep Hygiene",
		Content: "body",
		Reply:   "Shortened it.",
	}}
	svc := NewService(store, drafter, nil)

	_, err = svc.Assist(context.Background(), draft.ID, &model.AssistRequest{Message: "Make it shorter."})
	require.NoError(t, err)
	require.Len(t, drafter.conversation, 3)
	assert.Equal(t, "Make it shorter.", drafter.conversation[2].Content)
}

func TestAssistContractViolationLeavesDraftUntouched(t *testing.T) {
	draft := &model.ArticleDraft{Title: "Untitled", Status: model.DraftStatusDrafting}
	draft.ID = uuid.New()
	store := &stubStore{draft: draft}

	svc := NewService(store, &stubDrafter{err: assert.AnError}, nil)

	_, err := svc.Assist(context.Background(), draft.ID, &model.AssistRequest{Message: "hello"})
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrBadRequest, appErr.Code)

	assert.Empty(t, store.updated)
	assert.Equal(t, "Untitled", draft.Title)
	assert.Empty(t, draft.Conversation)
}

func TestAssistRejectsPublishedDraft(t *testing.T) {
	draft := &model.ArticleDraft{Status: model.DraftStatusPublished}
	draft.ID = uuid.New()
	store := &stubStore{draft: draft}
	svc := NewService(store, &stubDrafter{}, nil)

	_, err := svc.Assist(context.Background(), draft.ID, &model.AssistRequest{Message: "edit"})
	require.Error(t, err)
}

func TestMarkReviewRequiresContent(t *testing.T) {
	draft := &model.ArticleDraft{Status: model.DraftStatusDrafting}
	draft.ID = uuid.New()
	store := &stubStore{draft: draft}
	svc := NewService(store, &stubDrafter{}, nil)

	_, err := svc.MarkReview(context.Background(), draft.ID)
	require.Error(t, err)

	draft.Content = "body"
	reviewed, err := svc.MarkReview(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DraftStatusReview, reviewed.Status)
}
