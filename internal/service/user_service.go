package service

import (
	"time"

	"taccuino-server/internal/domain"
	"taccuino-server/internal/repository"
)

// UserService manages the display profile attached to an externally
// authenticated account. Save upserts: the first save after signup creates
// the profile document.
type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetProfile(userID string) (*domain.ProfileResponse, error) {
	profile, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	return profileToResponse(profile), nil
}

func (s *UserService) SaveProfile(userID string, req *domain.UpdateProfileRequest) (*domain.ProfileResponse, error) {
	now := time.Now()

	profile, err := s.repo.FindByID(userID)
	if err != nil {
		profile = &domain.UserProfile{
			UserID:    userID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.Create(profile); err != nil {
			return nil, err
		}
		return profileToResponse(profile), nil
	}

	profile.FirstName = req.FirstName
	profile.LastName = req.LastName
	profile.UpdatedAt = now

	if err := s.repo.Update(profile); err != nil {
		return nil, err
	}

	return profileToResponse(profile), nil
}

func profileToResponse(p *domain.UserProfile) *domain.ProfileResponse {
	return &domain.ProfileResponse{
		UserID:    p.UserID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
