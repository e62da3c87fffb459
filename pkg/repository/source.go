package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/sentinel/pkg/domain"
)

// SourceRepository handles source-related database operations
type SourceRepository struct {
	db *sqlx.DB
}

// sourceConfig stores adapter options as JSON
type sourceConfig map[string]string

// Value implements driver.Valuer
func (c sourceConfig) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal source config: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (c *sourceConfig) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*c = sourceConfig{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unexpected source config type %T", value)
	}
	res := sourceConfig{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &res); err != nil {
			return fmt.Errorf("unmarshal source config: %w", err)
		}
	}
	*c = res
	return nil
}

type sourceSQL struct {
	ID        string       `db:"id"`
	Kind      string       `db:"kind"`
	URL       string       `db:"url"`
	Name      string       `db:"name"`
	Config    sourceConfig `db:"config"`
	Status    string       `db:"status"`
	CreatedAt time.Time    `db:"created_at"`
}

// NewSourceRepository creates a new source repository
func NewSourceRepository(db *sqlx.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// UpsertSource creates the source or updates an existing one with the same id.
// Empty status is stored as active.
func (r *SourceRepository) UpsertSource(ctx context.Context, src *domain.Source) error {
	if src.ID == "" {
		return errors.New("source id is required")
	}
	if src.Status == "" {
		src.Status = domain.SourceActive
	}
	rec := sourceSQL{
		ID:        src.ID,
		Kind:      string(src.Kind),
		URL:       src.URL,
		Name:      src.Name,
		Config:    sourceConfig(src.Config),
		Status:    string(src.Status),
		CreatedAt: time.Now().UTC(),
	}

	query := `
		INSERT INTO sources (id, kind, url, name, config, status, created_at)
		VALUES (:id, :kind, :url, :name, :config, :status, :created_at)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			url = excluded.url,
			name = excluded.name,
			config = excluded.config,
			status = excluded.status
	`
	return withRetry(ctx, func() error {
		if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
			return fmt.Errorf("upsert source %s: %w", src.ID, err)
		}
		return nil
	})
}

// GetSource retrieves a source by id, domain.ErrNotFound if missing
func (r *SourceRepository) GetSource(ctx context.Context, id string) (*domain.Source, error) {
	var rec sourceSQL
	err := r.db.GetContext(ctx, &rec, "SELECT * FROM sources WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("source %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get source: %w", err)
	}
	return rec.toDomain(), nil
}

// GetSources retrieves sources ordered by name, only active ones if activeOnly set
func (r *SourceRepository) GetSources(ctx context.Context, activeOnly bool) ([]domain.Source, error) {
	query := "SELECT * FROM sources"
	args := []any{}
	if activeOnly {
		query += " WHERE status = ?"
		args = append(args, string(domain.SourceActive))
	}
	query += " ORDER BY name, id"

	var recs []sourceSQL
	if err := r.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("get sources: %w", err)
	}

	res := make([]domain.Source, len(recs))
	for i := range recs {
		res[i] = *recs[i].toDomain()
	}
	return res, nil
}

// UpdateSourceStatus sets the status of a source, domain.ErrNotFound if missing
func (r *SourceRepository) UpdateSourceStatus(ctx context.Context, id string, status domain.SourceStatus) error {
	return withRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, "UPDATE sources SET status = ? WHERE id = ?", string(status), id)
		if err != nil {
			return fmt.Errorf("update source status: %w", err)
		}
		return requireAffected(res, "source", id)
	})
}

// DeleteSource removes a source, findings collected from it are kept
func (r *SourceRepository) DeleteSource(ctx context.Context, id string) error {
	return withRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("delete source: %w", err)
		}
		return requireAffected(res, "source", id)
	})
}

func (s *sourceSQL) toDomain() *domain.Source {
	cfg := map[string]string(s.Config)
	if cfg == nil {
		cfg = map[string]string{}
	}
	return &domain.Source{
		ID:        s.ID,
		Kind:      domain.SourceKind(s.Kind),
		URL:       s.URL,
		Name:      s.Name,
		Config:    cfg,
		Status:    domain.SourceStatus(s.Status),
		CreatedAt: s.CreatedAt,
	}
}

// requireAffected returns domain.ErrNotFound if no rows were changed
func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	return nil
}
