package service

import (
	"context"
	"encoding/json"

	"github.com/pgdesk/pgdesk/internal/domain"
)

// SettingService stores user preferences as JSON values keyed by name.
type SettingService struct {
	repo domain.SettingRepository
}

func NewSettingService(repo domain.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

func (s *SettingService) Get(ctx context.Context, key string) (*domain.Setting, error) {
	if key == "" {
		return nil, domain.ErrValidation("setting key is required")
	}
	return s.repo.Get(ctx, key)
}

// Set upserts a setting. The value must be valid JSON.
func (s *SettingService) Set(ctx context.Context, key string, value json.RawMessage) (*domain.Setting, error) {
	if key == "" {
		return nil, domain.ErrValidation("setting key is required")
	}
	if !json.Valid(value) {
		return nil, domain.ErrValidation("setting value must be valid JSON")
	}
	return s.repo.Set(ctx, key, value)
}
