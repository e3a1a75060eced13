package blog

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Posts is the post store boundary
type Posts interface {
	repository.Repository[*Post]

	GetWithAuthor(ctx context.Context, id uuid.UUID) (*Post, error)
	ListAll(ctx context.Context) ([]*Post, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*Post, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type posts struct {
	repository.Repository[*Post]
	db *bun.DB
}

var (
	_ Posts                        = (*posts)(nil)
	_ repository.Repository[*Post] = (*posts)(nil)
)

func NewPostsRepository(db *bun.DB) Posts {
	repo := repository.NewRepository[*Post](db, repository.ModelHandlers[*Post]{
		NewRecord: func() *Post { return &Post{} },
		GetID: func(p *Post) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Post, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
	})

	return &posts{
		Repository: repo,
		db:         db,
	}
}

func (a *posts) Create(ctx context.Context, record *Post, criteria ...repository.InsertCriteria) (*Post, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *posts) CreateTx(ctx context.Context, tx bun.IDB, record *Post, criteria ...repository.InsertCriteria) (*Post, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *posts) Update(ctx context.Context, record *Post, criteria ...repository.UpdateCriteria) (*Post, error) {
	return a.UpdateTx(ctx, a.db, record, criteria...)
}

func (a *posts) UpdateTx(ctx context.Context, tx bun.IDB, record *Post, criteria ...repository.UpdateCriteria) (*Post, error) {
	updated, err := a.Repository.UpdateTx(ctx, tx, record, criteria...)
	if err != nil {
		if repository.IsSQLExpectedCountViolation(err) {
			meta := map[string]any{}
			if record != nil {
				meta["id"] = record.ID.String()
			}
			return nil, repository.NewRecordNotFound().WithMetadata(meta)
		}
		return nil, err
	}
	return updated, nil
}

func (a *posts) GetWithAuthor(ctx context.Context, id uuid.UUID) (*Post, error) {
	record := &Post{}
	err := a.db.NewSelect().
		Model(record).
		Relation("Author").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) || err == sql.ErrNoRows {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id": id.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *posts) ListAll(ctx context.Context) ([]*Post, error) {
	records := []*Post{}
	err := a.db.NewSelect().
		Model(&records).
		Relation("Author").
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *posts) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*Post, error) {
	records := []*Post{}
	err := a.db.NewSelect().
		Model(&records).
		Relation("Author").
		Where("?TableAlias.author_id = ?", authorID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *posts) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := a.db.NewDelete().
		Model((*Post)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}
