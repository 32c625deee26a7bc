package service

import (
	"context"
	"strings"

	"github.com/divyansh01440/nirvana-agency/internal/model"
)

// ProjectInput creates a portfolio entry.
type ProjectInput struct {
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnail_url"`
	LiveURL      string `json:"live_url"`
	Description  string `json:"description"`
}

type ProjectService struct {
	gw       *Gateway
	projects ProjectStore
}

func NewProjectService(gw *Gateway, projects ProjectStore) *ProjectService {
	return &ProjectService{gw: gw, projects: projects}
}

// List is public.
func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	ps, err := s.projects.List(ctx)
	if ps == nil && err == nil {
		ps = []model.Project{}
	}
	return ps, err
}

func (s *ProjectService) Create(ctx context.Context, caller model.UserID, in ProjectInput) (model.ProjectID, error) {
	if _, err := s.gw.RequireAdmin(ctx, caller); err != nil {
		return 0, err
	}
	if err := required([2]string{"name", in.Name}); err != nil {
		return 0, err
	}
	p := &model.Project{
		Name:         strings.TrimSpace(in.Name),
		ThumbnailURL: strings.TrimSpace(in.ThumbnailURL),
		LiveURL:      strings.TrimSpace(in.LiveURL),
		Description:  strings.TrimSpace(in.Description),
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return 0, err
	}
	return p.ID, nil
}

// Update applies a partial patch.  An empty patch only checks existence.
func (s *ProjectService) Update(ctx context.Context, caller model.UserID, id model.ProjectID, patch model.ProjectPatch) (*model.Project, error) {
	if _, err := s.gw.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fail(ErrValidation, "name is required")
	}
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Project not found")
	}
	if patch.Empty() {
		return p, nil
	}
	patch.Apply(p)
	if err := s.projects.Update(ctx, p); err != nil {
		return nil, storeErr(err, "Project not found")
	}
	return p, nil
}

func (s *ProjectService) Remove(ctx context.Context, caller model.UserID, id model.ProjectID) error {
	if _, err := s.gw.RequireAdmin(ctx, caller); err != nil {
		return err
	}
	return storeErr(s.projects.Delete(ctx, id), "Project not found")
}
