// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package issue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/bugtrack/internal/platform/apperr"
	"github.com/taibuivan/bugtrack/internal/platform/database/schema"
	"github.com/taibuivan/bugtrack/internal/platform/dberr"
	"github.com/taibuivan/bugtrack/internal/platform/postgres"
)

// # Issue Repository

type PostgresRepository struct {
	db postgres.Querier
}

func NewPostgresRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var issueSelect = schema.List(schema.CoreIssue.Columns())

func scanIssue(row pgx.Row) (*Issue, error) {
	i := &Issue{}
	var dueDate *time.Time
	err := row.Scan(
		&i.ID, &i.ProjectID, &i.Title, &i.Description, &i.Status, &i.Priority,
		&i.ReporterID, &i.AssigneeID, &dueDate, &i.CreatedAt, &i.UpdatedAt,
	)
	if dueDate != nil {
		i.DueDate = &Date{Time: *dueDate}
	}
	return i, err
}

func dueDateArg(date *Date) *time.Time {
	if date == nil {
		return nil
	}
	return &date.Time
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Issue, int, error) {
	table := schema.CoreIssue

	var (
		conditions []string
		args       []any
	)
	addCondition := func(column string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if filter.ProjectID != "" {
		addCondition(table.ProjectID, filter.ProjectID)
	}
	if filter.Status != "" {
		addCondition(table.Status, filter.Status)
	}
	if filter.AssigneeID != "" {
		addCondition(table.AssigneeID, filter.AssigneeID)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s %s`, table.Table, where)
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_issue_count_failed: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY %s DESC, %s DESC LIMIT $%d OFFSET $%d`,
		issueSelect, table.Table, where, table.CreatedAt, table.ID, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_issue_list_failed: %w", err)
	}
	defer rows.Close()

	issues := []*Issue{}
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_issue_scan_failed: %w", err)
		}
		issues = append(issues, i)
	}

	return issues, total, rows.Err()
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Issue, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, issueSelect, schema.CoreIssue.Table, schema.CoreIssue.ID)

	i, err := scanIssue(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Issue")
	}
	return i, nil
}

func (repository *PostgresRepository) Create(context context.Context, i *Issue) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		schema.CoreIssue.Table, issueSelect,
	)

	now := time.Now().UTC()
	i.CreatedAt, i.UpdatedAt = now, now

	_, err := repository.db.Exec(context, query,
		i.ID, i.ProjectID, i.Title, i.Description, i.Status, i.Priority,
		i.ReporterID, i.AssigneeID, dueDateArg(i.DueDate), i.CreatedAt, i.UpdatedAt,
	)
	return dberr.Wrap(err, "Issue")
}

// Update writes every mutable column. Callers merge partial input first.
func (repository *PostgresRepository) Update(context context.Context, i *Issue) error {
	table := schema.CoreIssue
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		table.Table,
		table.Title, table.Description, table.Status, table.Priority, table.AssigneeID, table.DueDate, table.UpdatedAt,
		table.ID,
		table.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		i.ID, i.Title, i.Description, i.Status, i.Priority, i.AssigneeID, dueDateArg(i.DueDate),
	).Scan(&i.UpdatedAt)
	return dberr.Wrap(err, "Issue")
}

// # Comment Repository

type PostgresCommentRepository struct {
	db postgres.Querier
}

func NewPostgresCommentRepository(db postgres.Querier) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

var commentSelect = schema.List(schema.CoreComment.Columns())

func scanComment(row pgx.Row) (*Comment, error) {
	c := &Comment{}
	err := row.Scan(&c.ID, &c.IssueID, &c.AuthorID, &c.Content, &c.CreatedAt)
	return c, err
}

func (repository *PostgresCommentRepository) ListByIssue(context context.Context, issueID string, limit, offset int) ([]*Comment, int, error) {
	table := schema.CoreComment

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`, table.Table, table.IssueID)
	if err := repository.db.QueryRow(context, countQuery, issueID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_count_failed: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC, %s ASC LIMIT $2 OFFSET $3`,
		commentSelect, table.Table, table.IssueID, table.CreatedAt, table.ID)

	rows, err := repository.db.Query(context, query, issueID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_list_failed: %w", err)
	}
	defer rows.Close()

	comments := []*Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_comment_scan_failed: %w", err)
		}
		comments = append(comments, c)
	}

	return comments, total, rows.Err()
}

func (repository *PostgresCommentRepository) FindByID(context context.Context, id string) (*Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, commentSelect, schema.CoreComment.Table, schema.CoreComment.ID)

	c, err := scanComment(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Comment")
	}
	return c, nil
}

func (repository *PostgresCommentRepository) Create(context context.Context, c *Comment) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5)`, schema.CoreComment.Table, commentSelect)

	c.CreatedAt = time.Now().UTC()
	_, err := repository.db.Exec(context, query, c.ID, c.IssueID, c.AuthorID, c.Content, c.CreatedAt)
	return dberr.Wrap(err, "Comment")
}

func (repository *PostgresCommentRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreComment.Table, schema.CoreComment.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "Comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}
