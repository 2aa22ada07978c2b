package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
)

type TagService struct {
	tags  *repository.TagRepository
	clock Clock
	log   *logrus.Logger
}

func NewTagService(store *repository.Store, clock Clock, log *logrus.Logger) *TagService {
	return &TagService{tags: store.Tags, clock: clock, log: log}
}

func (s *TagService) List(ctx context.Context) ([]model.Tag, error) {
	return s.tags.List(ctx)
}

func (s *TagService) Create(ctx context.Context, name, color string) (*model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrNameRequired
	}
	if utf8.RuneCountInString(name) > maxTagLength {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrTagTooLong, name)
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = model.DefaultTagColor
	}

	tag := &model.Tag{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     color,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"tag_id": tag.ID, "name": name}).Info("tag created")
	return tag, nil
}

// Delete removes the tag and detaches it from every task.
func (s *TagService) Delete(ctx context.Context, id string) error {
	if err := s.tags.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("tag_id", id).Info("tag deleted")
	return nil
}
