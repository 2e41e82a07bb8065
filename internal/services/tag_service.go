package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "corhyn.com/corhyn/internal/errors"
	repository "corhyn.com/corhyn/internal/repositories"
	model "corhyn.com/corhyn/pkg/models"
)

type TagService struct {
	repo  *repository.TagRepository
	clock Clock
}

func NewTagService(repo *repository.TagRepository, clock Clock) *TagService {
	return &TagService{
		repo:  repo,
		clock: orSystemClock(clock),
	}
}

func (s *TagService) CreateTag(ctx context.Context, name, color string) (*model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrTagNameRequired
	}

	tag := &model.Tag{
		Name:      name,
		Color:     optional(color),
		CreatedAt: s.clock().UTC(),
	}
	if err := s.repo.Create(ctx, tag); err != nil {
		return nil, err
	}

	log.Info().Uint("tag_id", tag.ID).Str("name", name).Msg("tag created")
	return tag, nil
}

func (s *TagService) RenameTag(ctx context.Context, oldName, newName string) (*model.Tag, error) {
	oldName, newName = strings.TrimSpace(oldName), strings.TrimSpace(newName)
	if oldName == "" || newName == "" {
		return nil, apperrors.ErrTagNameRequired
	}

	tag, err := s.repo.Rename(ctx, oldName, newName)
	if err != nil {
		return nil, err
	}

	log.Info().Uint("tag_id", tag.ID).Str("from", oldName).Str("to", newName).Msg("tag renamed")
	return tag, nil
}

func (s *TagService) DeleteTag(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.ErrTagNameRequired
	}
	if err := s.repo.Delete(ctx, name); err != nil {
		return err
	}

	log.Info().Str("name", name).Msg("tag deleted")
	return nil
}

func (s *TagService) ListTags(ctx context.Context) ([]model.TagUsage, error) {
	return s.repo.List(ctx)
}
