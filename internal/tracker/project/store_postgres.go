// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/bugtrack/internal/platform/apperr"
	"github.com/taibuivan/bugtrack/internal/platform/database/schema"
	"github.com/taibuivan/bugtrack/internal/platform/dberr"
	"github.com/taibuivan/bugtrack/internal/platform/postgres"
)

const (
	constraintProjectName = "project_name_key"
	constraintProjectSlug = "project_slug_key"
)

type PostgresRepository struct {
	db postgres.Querier
}

func NewPostgresRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var projectSelect = schema.List(schema.CoreProject.Columns())

func scanProject(row pgx.Row) (*Project, error) {
	p := &Project{}
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.IsArchived, &p.CreatedByID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Project, int, error) {
	table := schema.CoreProject

	var (
		conditions []string
		args       []any
	)
	if !filter.IncludeArchived {
		conditions = append(conditions, table.IsArchived+" = FALSE")
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		conditions = append(conditions, fmt.Sprintf("%s ILIKE $%d", table.Name, len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s %s`, table.Table, where)
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_project_count_failed: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY %s ASC LIMIT $%s OFFSET $%s`,
		projectSelect, table.Table, where, table.Name,
		strconv.Itoa(len(args)+1), strconv.Itoa(len(args)+2),
	)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_project_list_failed: %w", err)
	}
	defer rows.Close()

	projects := []*Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_project_scan_failed: %w", err)
		}
		projects = append(projects, p)
	}

	return projects, total, rows.Err()
}

func (repository *PostgresRepository) findBy(context context.Context, column, value string) (*Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, projectSelect, schema.CoreProject.Table, column)

	p, err := scanProject(repository.db.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, "Project")
	}
	return p, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Project, error) {
	return repository.findBy(context, schema.CoreProject.ID, id)
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Project, error) {
	return repository.findBy(context, schema.CoreProject.Slug, slug)
}

func (repository *PostgresRepository) Create(context context.Context, p *Project) error {
	table := schema.CoreProject
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		table.Table, projectSelect,
	)

	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	_, err := repository.db.Exec(context, query,
		p.ID, p.Name, p.Slug, p.Description, p.IsArchived, p.CreatedByID, p.CreatedAt, p.UpdatedAt,
	)
	return conflictOrWrap(err)
}

func (repository *PostgresRepository) Update(context context.Context, p *Project) error {
	table := schema.CoreProject
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		table.Table,
		table.Name, table.Slug, table.Description, table.IsArchived, table.UpdatedAt,
		table.ID,
		table.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, p.ID, p.Name, p.Slug, p.Description, p.IsArchived).Scan(&p.UpdatedAt)
	return conflictOrWrap(err)
}

// Delete removes the project; its issues and their comments cascade.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreProject.Table, schema.CoreProject.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "Project")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Project")
	}
	return nil
}

func conflictOrWrap(err error) error {
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, constraintProjectName, constraintProjectSlug):
		return apperr.Conflict("A project with this name already exists")
	default:
		return dberr.Wrap(err, "Project")
	}
}
