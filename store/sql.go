// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"

	"github.com/danielhkuo/student-vote/db"
	"github.com/danielhkuo/student-vote/models"
)

// maxTxAttempts bounds retries of serialization failures on postgres
const maxTxAttempts = 3

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type SQLRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewSQLRepository(conn *sql.DB, dialect db.Dialect) *SQLRepository {
	return &SQLRepository{db: conn, dialect: dialect}
}

func (r *SQLRepository) FindVotesByStudent(ctx context.Context, studentID int64) ([]models.Vote, error) {
	return findVotesByStudent(ctx, r.db, studentID)
}

func (r *SQLRepository) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name FROM organization ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query organizations: %w", err)
	}
	defer rows.Close()

	orgs := []models.Organization{}
	index := make(map[int64]int)
	for rows.Next() {
		org := models.Organization{Pairs: []models.Pair{}}
		if err := rows.Scan(&org.ID, &org.Name); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		index[org.ID] = len(orgs)
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate organizations: %w", err)
	}

	members, err := r.membersByPair(ctx)
	if err != nil {
		return nil, err
	}

	pairRows, err := r.db.QueryContext(ctx, `
		SELECT id, organization_id FROM pair ORDER BY organization_id, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pairs: %w", err)
	}
	defer pairRows.Close()

	for pairRows.Next() {
		var p models.Pair
		if err := pairRows.Scan(&p.ID, &p.OrganizationID); err != nil {
			return nil, fmt.Errorf("failed to scan pair: %w", err)
		}
		p.Members = members[p.ID]
		if p.Members == nil {
			p.Members = []models.OrganizationMember{}
		}
		i, ok := index[p.OrganizationID]
		if !ok {
			continue
		}
		orgs[i].Pairs = append(orgs[i].Pairs, p)
	}
	if err := pairRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pairs: %w", err)
	}

	return orgs, nil
}

// membersByPair loads all members, chairman first within each pair
func (r *SQLRepository) membersByPair(ctx context.Context) (map[int64][]models.OrganizationMember, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, organization_id, pair_id, nickname, full_name, role, image_file_name
		FROM organization_member
		ORDER BY pair_id, CASE role WHEN 'chairman' THEN 0 ELSE 1 END, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members := make(map[int64][]models.OrganizationMember)
	for rows.Next() {
		var m models.OrganizationMember
		var fullName, image sql.NullString
		if err := rows.Scan(&m.ID, &m.OrganizationID, &m.PairID, &m.Nickname, &fullName, &m.Role, &image); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		if fullName.Valid {
			m.FullName = &fullName.String
		}
		if image.Valid {
			m.ImageFileName = &image.String
		}
		members[m.PairID] = append(members[m.PairID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

func (r *SQLRepository) CountVotes(ctx context.Context) ([]models.PairVoteCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT organization_id, pair_id, COUNT(*)
		FROM vote
		GROUP BY organization_id, pair_id
		ORDER BY organization_id, pair_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	counts := []models.PairVoteCount{}
	for rows.Next() {
		var c models.PairVoteCount
		if err := rows.Scan(&c.OrganizationID, &c.PairID, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vote counts: %w", err)
	}

	return counts, nil
}

// InTx runs fn in one transaction. On postgres the transaction is
// serializable and retried when the server reports a serialization failure.
func (r *SQLRepository) InTx(ctx context.Context, fn func(tx Tx) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = r.runTx(ctx, fn)
		if !isSerializationFailure(err) {
			return err
		}
		slog.Warn("vote transaction conflict, retrying", "attempt", attempt, "error", err)
	}
	return err
}

func (r *SQLRepository) runTx(ctx context.Context, fn func(tx Tx) error) error {
	var opts *sql.TxOptions
	if r.dialect == db.Postgres {
		opts = &sql.TxOptions{Isolation: sql.LevelSerializable}
	}

	tx, err := r.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) FindVotesByStudent(ctx context.Context, studentID int64) ([]models.Vote, error) {
	return findVotesByStudent(ctx, t.tx, studentID)
}

func (t *sqlTx) FindPair(ctx context.Context, pairID int64) (models.Pair, error) {
	p := models.Pair{ID: pairID}
	err := t.tx.QueryRowContext(ctx, `
		SELECT organization_id FROM pair WHERE id = $1
	`, pairID).Scan(&p.OrganizationID)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Pair{}, ErrNotFound
	}
	if err != nil {
		return models.Pair{}, fmt.Errorf("failed to query pair: %w", err)
	}
	return p, nil
}

func (t *sqlTx) InsertVote(ctx context.Context, studentID int64, pair models.Pair) (models.Vote, error) {
	v := models.Vote{StudentID: studentID, OrganizationID: pair.OrganizationID, PairID: pair.ID}
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO vote (student_id, organization_id, pair_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, studentID, pair.OrganizationID, pair.ID).Scan(&v.ID)

	if isUniqueViolation(err) {
		return models.Vote{}, ErrDuplicateVote
	}
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to insert vote: %w", err)
	}
	return v, nil
}

func findVotesByStudent(ctx context.Context, q querier, studentID int64) ([]models.Vote, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, student_id, organization_id, pair_id
		FROM vote
		WHERE student_id = $1
		ORDER BY id
	`, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.StudentID, &v.OrganizationID, &v.PairID); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate votes: %w", err)
	}

	return votes, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "40001"
}
