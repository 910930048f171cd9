package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/muhub/projecthub/internal/apperror"
	"github.com/muhub/projecthub/internal/auth"
	"github.com/muhub/projecthub/internal/model"
	"github.com/muhub/projecthub/internal/repository"
)

// Validation constants for project submissions.
const (
	MaxProjectTitleLength   = 120
	MaxProjectSummaryLength = 4000
	DefaultListLimit        = 20
	MaxListLimit            = 100
)

// ProjectService handles business logic for project ideas: submission,
// browsing, owner edits, and mentor assignment.
type ProjectService struct {
	repo   repository.ProjectRepository
	logger *slog.Logger
}

// NewProjectService creates a ProjectService.
func NewProjectService(repo repository.ProjectRepository, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and saves a new project idea. The caller becomes the
// owner.
func (s *ProjectService) Create(ctx context.Context, owner *auth.Identity, title, summary, tags string) (*model.Project, error) {
	if owner == nil {
		return nil, apperror.Unauthorized()
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "project title is required")
	}
	if len(title) > MaxProjectTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("project title must be %d characters or less", MaxProjectTitleLength))
	}
	if len(summary) > MaxProjectSummaryLength {
		return nil, apperror.ValidationFailed("summary",
			fmt.Sprintf("project summary must be %d characters or less", MaxProjectSummaryLength))
	}

	project := &model.Project{
		Title:   title,
		Summary: strings.TrimSpace(summary),
		Tags:    strings.TrimSpace(tags),
		OwnerID: owner.UserID,
		Status:  model.ProjectOpen,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		s.logger.Error("failed to create project",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created",
		slog.String("id", project.ID),
		slog.String("ownerID", project.OwnerID),
	)

	return project, nil
}

// GetByID retrieves a project by its ID.
func (s *ProjectService) GetByID(ctx context.Context, id string) (*model.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "project ID is required")
	}

	return s.repo.GetByID(ctx, id)
}

// List retrieves projects with pagination, clamped to a sane range so a
// caller can't request a million rows.
func (s *ProjectService) List(ctx context.Context, limit, offset int) ([]model.Project, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	projects, err := s.repo.List(ctx, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error("failed to list projects", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	return projects, nil
}

// Update modifies a project. Only the owner (or an admin) may edit.
// Empty title/summary/tags mean "don't change".
func (s *ProjectService) Update(ctx context.Context, caller *auth.Identity, id, title, summary, tags string) (*model.Project, error) {
	if caller == nil {
		return nil, apperror.Unauthorized()
	}

	project, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	if !canEdit(caller, project) {
		return nil, apperror.Forbidden("only the project owner can edit this project")
	}

	if title = strings.TrimSpace(title); title != "" {
		if len(title) > MaxProjectTitleLength {
			return nil, apperror.ValidationFailed("title",
				fmt.Sprintf("project title must be %d characters or less", MaxProjectTitleLength))
		}
		project.Title = title
	}
	if summary = strings.TrimSpace(summary); summary != "" {
		if len(summary) > MaxProjectSummaryLength {
			return nil, apperror.ValidationFailed("summary",
				fmt.Sprintf("project summary must be %d characters or less", MaxProjectSummaryLength))
		}
		project.Summary = summary
	}
	if tags = strings.TrimSpace(tags); tags != "" {
		project.Tags = tags
	}

	if err := s.repo.Update(ctx, project); err != nil {
		s.logger.Error("failed to update project",
			slog.String("id", project.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating project: %w", err)
	}

	return project, nil
}

// Delete removes a project. Only the owner (or an admin) may delete.
func (s *ProjectService) Delete(ctx context.Context, caller *auth.Identity, id string) error {
	if caller == nil {
		return apperror.Unauthorized()
	}

	project, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}

	if !canEdit(caller, project) {
		return apperror.Forbidden("only the project owner can delete this project")
	}

	if err := s.repo.Delete(ctx, project.ID); err != nil {
		return err
	}

	s.logger.Info("project deleted",
		slog.String("id", project.ID),
		slog.String("by", caller.UserID),
	)
	return nil
}

// AssignMentor attaches a mentor to a project and marks it matched.
//
// Only callers holding the mentor or admin role may assign. A mentor with
// an empty mentorID assigns themselves; an admin can assign anyone.
func (s *ProjectService) AssignMentor(ctx context.Context, caller *auth.Identity, projectID, mentorID string) (*model.Project, error) {
	if caller == nil {
		return nil, apperror.Unauthorized()
	}
	if caller.Role != model.RoleMentor && caller.Role != model.RoleAdmin {
		return nil, apperror.Forbidden("only mentors can take on projects")
	}

	project, err := s.repo.GetByID(ctx, strings.TrimSpace(projectID))
	if err != nil {
		return nil, err
	}

	if mentorID == "" {
		mentorID = caller.UserID
	}
	project.MentorID = mentorID
	project.Status = model.ProjectMatched

	if err := s.repo.Update(ctx, project); err != nil {
		s.logger.Error("failed to assign mentor",
			slog.String("projectID", project.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("assigning mentor: %w", err)
	}

	s.logger.Info("mentor assigned",
		slog.String("projectID", project.ID),
		slog.String("mentorID", mentorID),
	)

	return project, nil
}

// canEdit reports whether the caller may modify the project.
func canEdit(caller *auth.Identity, project *model.Project) bool {
	return caller.UserID == project.OwnerID || caller.Role == model.RoleAdmin
}
