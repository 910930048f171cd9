package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/muhub/projecthub/internal/apperror"
	"github.com/muhub/projecthub/internal/model"
	"github.com/muhub/projecthub/internal/repository"
)

// ProjectStore implements repository.ProjectRepository over the shared pool.
type ProjectStore struct {
	conn *sql.DB
}

// compile-time check that *ProjectStore implements repository.ProjectRepository
var _ repository.ProjectRepository = (*ProjectStore)(nil)

// Projects returns the project-facing view of the database.
func (db *DB) Projects() *ProjectStore {
	return &ProjectStore{conn: db.conn}
}

// Create inserts a new project and fills in ID and timestamps.
func (s *ProjectStore) Create(ctx context.Context, project *model.Project) error {
	now := time.Now()
	project.ID = xid.New().String()
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO projects (id, title, summary, tags, owner_id, mentor_id, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID,
		project.Title,
		project.Summary,
		project.Tags,
		project.OwnerID,
		project.MentorID,
		project.Status,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting project %q: %w", project.Title, err)
	}

	return nil
}

// GetByID retrieves a project by ID.
// Returns an error matching apperror.ErrNotFound if it doesn't exist.
func (s *ProjectStore) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var p model.Project

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, title, summary, tags, owner_id, mentor_id, status, created_at, updated_at
		 FROM projects WHERE id = ?`,
		id,
	).Scan(
		&p.ID,
		&p.Title,
		&p.Summary,
		&p.Tags,
		&p.OwnerID,
		&p.MentorID,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("project", id)
		}
		return nil, fmt.Errorf("sqlite: getting project %s: %w", id, err)
	}

	return &p, nil
}

// List returns projects newest-first with pagination.
func (s *ProjectStore) List(ctx context.Context, opts repository.ListOptions) ([]model.Project, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, title, summary, tags, owner_id, mentor_id, status, created_at, updated_at
		 FROM projects
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing projects: %w", err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Summary,
			&p.Tags,
			&p.OwnerID,
			&p.MentorID,
			&p.Status,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating project rows: %w", err)
	}

	return projects, nil
}

// Update saves changes to an existing project.
func (s *ProjectStore) Update(ctx context.Context, project *model.Project) error {
	project.UpdatedAt = time.Now()

	res, err := s.conn.ExecContext(ctx,
		`UPDATE projects
		 SET title = ?, summary = ?, tags = ?, mentor_id = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		project.Title,
		project.Summary,
		project.Tags,
		project.MentorID,
		project.Status,
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating project %s: %w", project.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("project", project.ID)
	}

	return nil
}

// Delete removes a project by ID.
func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting project %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("project", id)
	}

	return nil
}
