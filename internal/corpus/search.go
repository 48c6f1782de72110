// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/qaextract/pkg/types"
)

// QueryOptions holds parameters for corpus searches.
type QueryOptions struct {
	// Query is a substring matched against questions and answers.
	Query string

	// Source filters by dataset source tag.
	Source string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Source == ""
}

// QueryResult is an indexed record with its provenance.
type QueryResult struct {
	types.Record `yaml:",inline"`

	ID      string  `json:"id" yaml:"id"`
	Source  string  `json:"source" yaml:"source"`
	Score   float64 `json:"score" yaml:"score"`
	Dataset string  `json:"dataset" yaml:"dataset"`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns records matching opts in ingestion order.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT id, question, answer, source, score, dataset FROM records WHERE 1=1`)

	if opts.Query != "" {
		pattern := "%" + likeEscaper.Replace(opts.Query) + "%"
		qb.WriteString(` AND (question LIKE ? ESCAPE '\' OR answer LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if opts.Source != "" {
		qb.WriteString(` AND source = ?`)
		args = append(args, opts.Source)
	}

	qb.WriteString(` ORDER BY rowid LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying corpus: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var r QueryResult
		if err := rows.Scan(&r.ID, &r.Question, &r.Answer, &r.Source, &r.Score, &r.Dataset); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// SourceCount is the number of indexed records carrying one source tag.
type SourceCount struct {
	Source  string `json:"source" yaml:"source"`
	Records int    `json:"records" yaml:"records"`
}

// Counts returns the number of indexed records per source, sorted by source.
func (s *Store) Counts(ctx context.Context) ([]SourceCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, count(*) FROM records GROUP BY source ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("counting records: %w", err)
	}
	defer rows.Close()

	var counts []SourceCount
	for rows.Next() {
		var c SourceCount
		if err := rows.Scan(&c.Source, &c.Records); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
