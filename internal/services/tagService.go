package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"linkstash/internal/models"
	"linkstash/internal/repositories"
)

type TagService interface {
	List(ctx context.Context) ([]models.Tag, error)
}

type tagServiceImpl struct {
	tagRepo repositories.TagRepository
}

func NewTagService(tagRepo repositories.TagRepository) TagService {
	return &tagServiceImpl{tagRepo: tagRepo}
}

func (s *tagServiceImpl) List(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.tagRepo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error listing tags")
		return nil, err
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	return tags, nil
}
