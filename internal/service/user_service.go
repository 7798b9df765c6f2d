package service

import (
	"context"
	"fmt"
	"time"

	"ai-travelplanner-be/internal/dto"
	"ai-travelplanner-be/internal/entity"
	"ai-travelplanner-be/internal/repository/specification"
	"ai-travelplanner-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	GetPreferences(ctx context.Context, userId uuid.UUID) (*dto.PreferencesResponse, error)
	UpdatePreferences(ctx context.Context, userId uuid.UUID, req *dto.UpdatePreferencesRequest) error
	GetSearchHistory(ctx context.Context, userId uuid.UUID) ([]*dto.SearchHistoryItem, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{
		uowFactory: uowFactory,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	avatarURL := ""
	if user.AvatarURL != nil {
		avatarURL = *user.AvatarURL
	}

	return &dto.UserProfileResponse{
		Id:        user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		Status:    string(user.Status),
		AvatarURL: avatarURL,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *userService) GetPreferences(ctx context.Context, userId uuid.UUID) (*dto.PreferencesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	pref, err := uow.PreferenceRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return &dto.PreferencesResponse{Data: map[string]interface{}{}}, nil
	}
	return &dto.PreferencesResponse{
		Data:      pref.Data,
		UpdatedAt: pref.UpdatedAt,
	}, nil
}

func (s *userService) UpdatePreferences(ctx context.Context, userId uuid.UUID, req *dto.UpdatePreferencesRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.PreferenceRepository().Upsert(ctx, &entity.UserPreference{
		UserId:    userId,
		Data:      req.Data,
		UpdatedAt: time.Now(),
	})
}

func (s *userService) GetSearchHistory(ctx context.Context, userId uuid.UUID) ([]*dto.SearchHistoryItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.SearchHistoryRepository().ListByUser(ctx, userId, searchHistoryKeep)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.SearchHistoryItem, len(items))
	for i, item := range items {
		result[i] = &dto.SearchHistoryItem{
			Id:        item.Id,
			Query:     item.Query,
			Result:    item.Result,
			CreatedAt: item.CreatedAt,
		}
	}
	return result, nil
}
