package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/sentinel/pkg/domain"
)

// DefaultFindingsLimit applied when filter has no limit
const DefaultFindingsLimit = 100

// FindingRepository handles finding-related database operations
type FindingRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

type findingSQL struct {
	ID            string    `db:"id"`
	SourceID      string    `db:"source_id"`
	Title         string    `db:"title"`
	Content       string    `db:"content"`
	URL           string    `db:"url"`
	PublishedDate time.Time `db:"published_date"`
	Sentiment     float64   `db:"sentiment"`
	RiskLevel     string    `db:"risk_level"`
	Status        string    `db:"status"`
	Comments      string    `db:"comments"`
	CreatedBy     string    `db:"created_by"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

var findingColumns = []string{"id", "source_id", "title", "content", "url", "published_date", "sentiment",
	"risk_level", "status", "comments", "created_by", "created_at", "updated_at"}

// NewFindingRepository creates a new finding repository
func NewFindingRepository(db *sqlx.DB) *FindingRepository {
	return &FindingRepository{db: db, now: time.Now}
}

// UpsertFinding inserts a finding or merges it into the existing one with the same id.
// Merge overwrites pipeline fields only, status, comments and created_at are preserved.
// Returns true if a new finding was inserted.
func (r *FindingRepository) UpsertFinding(ctx context.Context, f *domain.Finding) (inserted bool, err error) {
	if f.ID == "" {
		return false, errors.New("finding id is required")
	}

	now := r.now().UTC()
	rec := findingSQL{
		ID:            f.ID,
		SourceID:      f.SourceID,
		Title:         f.Title,
		Content:       f.Content,
		URL:           f.URL,
		PublishedDate: f.PublishedDate.UTC(),
		Sentiment:     f.Sentiment,
		RiskLevel:     string(f.RiskLevel),
		Status:        f.Status,
		Comments:      f.Comments,
		CreatedBy:     f.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if rec.Status == "" {
		rec.Status = domain.StatusNew
	}

	query := `
		INSERT INTO findings (id, source_id, title, content, url, published_date, sentiment, risk_level,
			status, comments, created_by, created_at, updated_at)
		VALUES (:id, :source_id, :title, :content, :url, :published_date, :sentiment, :risk_level,
			:status, :comments, :created_by, :created_at, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			source_id = excluded.source_id,
			title = excluded.title,
			content = excluded.content,
			url = excluded.url,
			published_date = excluded.published_date,
			sentiment = excluded.sentiment,
			risk_level = excluded.risk_level,
			created_by = excluded.created_by,
			updated_at = excluded.updated_at
	`

	err = withRetry(ctx, func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // no-op after commit

		var exists bool
		if err := tx.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM findings WHERE id = ?)", f.ID); err != nil {
			return fmt.Errorf("check finding exists: %w", err)
		}
		if _, err := tx.NamedExecContext(ctx, query, rec); err != nil {
			return fmt.Errorf("upsert finding %s: %w", f.ID, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit finding %s: %w", f.ID, err)
		}
		inserted = !exists
		return nil
	})
	if err != nil {
		return false, err
	}

	f.UpdatedAt = now
	if inserted {
		f.CreatedAt, f.Status = now, rec.Status
	}
	return inserted, nil
}

// GetFinding retrieves a finding by id, domain.ErrNotFound if missing
func (r *FindingRepository) GetFinding(ctx context.Context, id string) (*domain.Finding, error) {
	query, args, err := sq.Select(findingColumns...).From("findings").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rec findingSQL
	if err := r.db.GetContext(ctx, &rec, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("finding %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get finding: %w", err)
	}
	return rec.toDomain(), nil
}

// GetFindings retrieves findings matching the filter, newest published first
func (r *FindingRepository) GetFindings(ctx context.Context, filter domain.FindingFilter) ([]domain.Finding, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultFindingsLimit
	}

	qb := applyFindingFilter(sq.Select(findingColumns...).From("findings"), filter).
		OrderBy("published_date DESC", "id").
		Limit(uint64(limit)) //nolint:gosec // positive
	if filter.Offset > 0 {
		qb = qb.Offset(uint64(filter.Offset)) //nolint:gosec // positive
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var recs []findingSQL
	if err := r.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("get findings: %w", err)
	}

	res := make([]domain.Finding, len(recs))
	for i := range recs {
		res[i] = *recs[i].toDomain()
	}
	return res, nil
}

// CountFindings returns number of findings matching the filter, limit and offset ignored
func (r *FindingRepository) CountFindings(ctx context.Context, filter domain.FindingFilter) (int, error) {
	query, args, err := applyFindingFilter(sq.Select("COUNT(*)").From("findings"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count findings: %w", err)
	}
	return count, nil
}

// CountByRisk returns number of findings per risk level
func (r *FindingRepository) CountByRisk(ctx context.Context) (map[domain.RiskLevel]int, error) {
	query, args, err := sq.Select("risk_level", "COUNT(*) AS cnt").From("findings").GroupBy("risk_level").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []struct {
		RiskLevel string `db:"risk_level"`
		Count     int    `db:"cnt"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count findings by risk: %w", err)
	}

	res := make(map[domain.RiskLevel]int, len(rows))
	for _, row := range rows {
		res[domain.RiskLevel(row.RiskLevel)] = row.Count
	}
	return res, nil
}

// UpdateFindingWorkflow sets collaborator-owned fields, nil fields are left unchanged.
// Returns domain.ErrNotFound if the finding does not exist.
func (r *FindingRepository) UpdateFindingWorkflow(ctx context.Context, id string, upd domain.WorkflowUpdate) error {
	if upd.Status == nil && upd.Comments == nil {
		_, err := r.GetFinding(ctx, id)
		return err
	}

	ub := sq.Update("findings").Where(sq.Eq{"id": id})
	if upd.Status != nil {
		ub = ub.Set("status", *upd.Status)
	}
	if upd.Comments != nil {
		ub = ub.Set("comments", *upd.Comments)
	}
	query, args, err := ub.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	return withRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update finding workflow: %w", err)
		}
		return requireAffected(res, "finding", id)
	})
}

func applyFindingFilter(qb sq.SelectBuilder, filter domain.FindingFilter) sq.SelectBuilder {
	if len(filter.RiskLevels) > 0 {
		levels := make([]string, len(filter.RiskLevels))
		for i, l := range filter.RiskLevels {
			levels[i] = string(l)
		}
		qb = qb.Where(sq.Eq{"risk_level": levels})
	}
	if filter.Status != "" {
		qb = qb.Where(sq.Eq{"status": filter.Status})
	}
	if filter.SourceID != "" {
		qb = qb.Where(sq.Eq{"source_id": filter.SourceID})
	}
	return qb
}

func (f *findingSQL) toDomain() *domain.Finding {
	return &domain.Finding{
		ID:            f.ID,
		SourceID:      f.SourceID,
		Title:         f.Title,
		Content:       f.Content,
		URL:           f.URL,
		PublishedDate: f.PublishedDate.UTC(),
		Sentiment:     f.Sentiment,
		RiskLevel:     domain.RiskLevel(f.RiskLevel),
		Status:        f.Status,
		Comments:      f.Comments,
		CreatedBy:     f.CreatedBy,
		CreatedAt:     f.CreatedAt.UTC(),
		UpdatedAt:     f.UpdatedAt.UTC(),
	}
}
