package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "corhyn.com/corhyn/internal/errors"
	"corhyn.com/corhyn/internal/validators"
	model "corhyn.com/corhyn/pkg/models"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// ResolveOrCreate maps tag names to IDs, creating the missing tags. Names are
// trimmed, empty ones skipped and repeats collapsed; IDs come back in the
// order each name first appears.
func (r *TagRepository) ResolveOrCreate(ctx context.Context, names []string, now time.Time) ([]uint, error) {
	names = validators.NormalizeTagNames(names)
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		tag, err := r.FindByName(ctx, name)
		if err == nil {
			ids = append(ids, tag.ID)
			continue
		}
		if !errors.Is(err, apperrors.ErrTagNotFound) {
			return nil, err
		}

		tag = &model.Tag{Name: name, CreatedAt: now}
		if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
			return nil, fmt.Errorf("create tag %q: %w", name, err)
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

func (r *TagRepository) FindByName(ctx context.Context, name string) (*model.Tag, error) {
	var tag model.Tag
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("tag %q: %w", name, apperrors.ErrTagNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *TagRepository) Create(ctx context.Context, tag *model.Tag) error {
	if err := r.ensureNameFree(ctx, tag.Name); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("tag %q: %w", tag.Name, apperrors.ErrTagExists)
		}
		return err
	}
	return nil
}

func (r *TagRepository) Rename(ctx context.Context, oldName, newName string) (*model.Tag, error) {
	tag, err := r.FindByName(ctx, oldName)
	if err != nil {
		return nil, err
	}
	if oldName == newName {
		return tag, nil
	}
	if err := r.ensureNameFree(ctx, newName); err != nil {
		return nil, err
	}

	res := r.db.WithContext(ctx).Model(&model.Tag{}).Where("id = ?", tag.ID).Update("name", newName)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("tag %q: %w", newName, apperrors.ErrTagExists)
		}
		return nil, res.Error
	}

	tag.Name = newName
	return tag, nil
}

// Delete removes the tag and every link to it.
func (r *TagRepository) Delete(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag model.Tag
		err := tx.Where("name = ?", name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("tag %q: %w", name, apperrors.ErrTagNotFound)
		}
		if err != nil {
			return err
		}

		if err := tx.Where("tag_id = ?", tag.ID).Delete(&model.TaskTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}

// List returns all tags ordered by name with their task counts.
func (r *TagRepository) List(ctx context.Context) ([]model.TagUsage, error) {
	var tags []model.TagUsage
	err := r.db.WithContext(ctx).
		Table("tags").
		Select("tags.*, COUNT(task_tags.task_id) AS task_count").
		Joins("LEFT JOIN task_tags ON task_tags.tag_id = tags.id").
		Group("tags.id").
		Order("tags.name").
		Scan(&tags).Error
	return tags, err
}

func (r *TagRepository) ensureNameFree(ctx context.Context, name string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Tag{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("tag %q: %w", name, apperrors.ErrTagExists)
	}
	return nil
}
