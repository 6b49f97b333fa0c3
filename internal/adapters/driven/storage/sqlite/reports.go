package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driven"
)

// createdAtLayout is the stored timestamp format (UTC).
const createdAtLayout = "2006-01-02 15:04:05"

// reportStore implements driven.ReportStore.
type reportStore struct {
	store *Store
}

var _ driven.ReportStore = (*reportStore)(nil)

const reportColumnsSQL = `id, created_at, file_name, method, language, severity, summary,
	root_cause, short_term, long_term, full_markdown, embed_model, embed_json,
	doc_key, version, is_current`

// Replace stores r as the only row for its document key.
func (s *reportStore) Replace(ctx context.Context, r *domain.Report) error {
	if r.FullMarkdown == "" {
		return fmt.Errorf("%w: report body is empty", domain.ErrInvalidInput)
	}
	if r.DocKey == "" {
		r.DocKey = domain.DocKey(r.FileName)
	}

	if err := s.store.ensureColumns(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}

	embedJSON, err := encodeEmbedding(r.Embedding)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %w", domain.ErrStorage, err)
	}
	defer tx.Rollback() //nolint:errcheck

	var maxVersion int
	row := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM reports WHERE doc_key = ?", r.DocKey)
	if err := row.Scan(&maxVersion); err != nil {
		return fmt.Errorf("%w: reading version: %w", domain.ErrStorage, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM reports WHERE doc_key = ?", r.DocKey); err != nil {
		return fmt.Errorf("%w: removing previous versions: %w", domain.ErrStorage, err)
	}

	createdAt := time.Now().UTC().Truncate(time.Second)
	res, err := tx.ExecContext(ctx, `
		INSERT INTO reports (created_at, file_name, method, language, severity, summary,
			root_cause, short_term, long_term, full_markdown, embed_model, embed_json,
			doc_key, version, is_current)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
	`, createdAt.Format(createdAtLayout), r.FileName, r.Method, r.Language, r.Severity, r.Summary,
		r.RootCause, r.ShortTerm, r.LongTerm, r.FullMarkdown, r.EmbeddingModel, embedJSON,
		r.DocKey, maxVersion+1)
	if err != nil {
		return fmt.Errorf("%w: inserting report: %w", domain.ErrStorage, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: reading report id: %w", domain.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %w", domain.ErrStorage, err)
	}

	r.ID = id
	r.CreatedAt = createdAt
	r.Version = maxVersion + 1
	r.IsCurrent = true
	return nil
}

// FetchCurrent returns every current report in insertion order.
func (s *reportStore) FetchCurrent(ctx context.Context) ([]*domain.Report, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+reportColumnsSQL+`
		FROM reports WHERE IFNULL(is_current, 1) = 1
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying reports: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	var reports []*domain.Report //nolint:prealloc // size unknown from query
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating reports: %w", domain.ErrStorage, err)
	}

	return reports, nil
}

// Get retrieves a report by ID.
func (s *reportStore) Get(ctx context.Context, id int64) (*domain.Report, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+reportColumnsSQL+`
		FROM reports WHERE id = ?
	`, id)

	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return r, err
}

// Count returns the number of stored rows.
func (s *reportStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting reports: %w", domain.ErrStorage, err)
	}
	return n, nil
}

// ==================== Helper Functions ====================

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanReport scans one report row. Columns added by later schema revisions
// may be NULL in rows written before them.
func scanReport(row rowScanner) (*domain.Report, error) {
	var (
		r                                       domain.Report
		createdAt                               string
		fileName, method, language, severity    sql.NullString
		summary, rootCause, shortTerm, longTerm sql.NullString
		embedModel, embedJSON, docKey           sql.NullString
		version, isCurrent                      sql.NullInt64
	)

	if err := row.Scan(&r.ID, &createdAt, &fileName, &method, &language, &severity, &summary,
		&rootCause, &shortTerm, &longTerm, &r.FullMarkdown, &embedModel, &embedJSON,
		&docKey, &version, &isCurrent); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: scanning report: %w", domain.ErrStorage, err)
	}

	if t, err := time.Parse(createdAtLayout, createdAt); err == nil {
		r.CreatedAt = t.UTC()
	}
	r.FileName = fileName.String
	r.Method = method.String
	r.Language = language.String
	r.Severity = severity.String
	r.Summary = summary.String
	r.RootCause = rootCause.String
	r.ShortTerm = shortTerm.String
	r.LongTerm = longTerm.String
	r.EmbeddingModel = embedModel.String

	r.DocKey = docKey.String
	if r.DocKey == "" {
		r.DocKey = domain.DocKey(r.FileName)
	}

	r.Version = 1
	if version.Valid {
		r.Version = int(version.Int64)
	}
	r.IsCurrent = !isCurrent.Valid || isCurrent.Int64 != 0

	vec, err := decodeEmbedding(embedJSON.String)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding embedding of report %d: %w", domain.ErrStorage, r.ID, err)
	}
	r.Embedding = vec

	return &r, nil
}

// encodeEmbedding returns the JSON list for a vector, or NULL when empty.
func encodeEmbedding(vec []float32) (any, error) {
	if len(vec) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(vec)
	if err != nil {
		return nil, fmt.Errorf("marshalling embedding: %w", err)
	}
	return string(data), nil
}

// decodeEmbedding parses a stored JSON list. Empty input yields an empty vector.
func decodeEmbedding(s string) ([]float32, error) {
	if s == "" || s == "null" {
		return nil, nil
	}
	var vec []float32
	if err := json.Unmarshal([]byte(s), &vec); err != nil {
		return nil, err
	}
	return vec, nil
}
