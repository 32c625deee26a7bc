package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/divyansh01440/nirvana-agency/internal/model"
)

// ProjectRepo stores portfolio entries.
type ProjectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepo { return &ProjectRepo{db: db} }

const projectColumns = "id, name, thumbnail_url, live_url, description, created_at, updated_at"

func scanProject(row rowScanner) (*model.Project, error) {
	var p model.Project
	if err := row.Scan(&p.ID, &p.Name, &p.ThumbnailURL, &p.LiveURL, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a project and populates its ID and timestamps.
func (r *ProjectRepo) Create(ctx context.Context, p *model.Project) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO projects (name, thumbnail_url, live_url, description) VALUES (?,?,?,?)",
		p.Name, p.ThumbnailURL, p.LiveURL, p.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, model.ProjectID(id))
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

// GetByID fetches one project.
func (r *ProjectRepo) GetByID(ctx context.Context, id model.ProjectID) (*model.Project, error) {
	return scanProject(r.db.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id = ?", id))
}

// List returns all projects ordered by id.
func (r *ProjectRepo) List(ctx context.Context) ([]model.Project, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Update writes every column of p.
func (r *ProjectRepo) Update(ctx context.Context, p *model.Project) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, thumbnail_url = ?, live_url = ?, description = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		p.Name, p.ThumbnailURL, p.LiveURL, p.Description, p.ID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// Delete removes a project.
func (r *ProjectRepo) Delete(ctx context.Context, id model.ProjectID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectRow(res)
}
