package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/meridianpsych/clinic-api/internal/model"
	"github.com/meridianpsych/clinic-api/internal/repository"
)

type articleRepository struct {
	db *sqlx.DB
}

func NewArticleRepository(db *sqlx.DB) repository.ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, draft *model.ArticleDraft) error {
	query := `
		INSERT INTO article_drafts (
			id, title, slug, excerpt, content, category, tags, status,
			author_email, conversation, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	draft.ID = uuid.New()
	draft.CreatedAt = time.Now()
	draft.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		draft.ID,
		draft.Title,
		draft.Slug,
		draft.Excerpt,
		draft.Content,
		draft.Category,
		draft.Tags,
		draft.Status,
		draft.AuthorEmail,
		draft.Conversation,
		draft.CreatedAt,
		draft.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create article draft: %w", err)
	}
	return nil
}

func (r *articleRepository) Get(ctx context.Context, id uuid.UUID) (*model.ArticleDraft, error) {
	query := `
		SELECT id, title, slug, excerpt, content, category, tags, status,
			   author_email, conversation, created_at, updated_at, deleted_at
		FROM article_drafts
		WHERE id = $1 AND deleted_at IS NULL
	`
	var draft model.ArticleDraft
	if err := r.db.GetContext(ctx, &draft, query, id); err != nil {
		return nil, fmt.Errorf("failed to get article draft: %w", err)
	}
	return &draft, nil
}

func (r *articleRepository) Update(ctx context.Context, draft *model.ArticleDraft) error {
	query := `
		UPDATE article_drafts
		SET title = $1, slug = $2, excerpt = $3, content = $4,
			category = $5, tags = $6, status = $7, conversation = $8,
			updated_at = $9
		WHERE id = $10 AND deleted_at IS NULL
	`
	draft.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		draft.Title,
		draft.Slug,
		draft.Excerpt,
		draft.Content,
		draft.Category,
		draft.Tags,
		draft.Status,
		draft.Conversation,
		draft.UpdatedAt,
		draft.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update article draft: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("article draft not found")
	}
	return nil
}

func (r *articleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE article_drafts
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete article draft: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("article draft not found")
	}
	return nil
}

func (r *articleRepository) List(ctx context.Context) ([]*model.ArticleDraft, error) {
	query := `
		SELECT id, title, slug, excerpt, content, category, tags, status,
			   author_email, conversation, created_at, updated_at, deleted_at
		FROM article_drafts
		WHERE deleted_at IS NULL
		ORDER BY updated_at DESC
	`
	var drafts []*model.ArticleDraft
	if err := r.db.SelectContext(ctx, &drafts, query); err != nil {
		return nil, fmt.Errorf("failed to list article drafts: %w", err)
	}
	return drafts, nil
}
