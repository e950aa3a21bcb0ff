package service

import (
	"errors"
	"testing"

	"taccuino-server/internal/domain"
)

type mockUserRepo struct {
	profiles map[string]*domain.UserProfile
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		profiles: make(map[string]*domain.UserProfile),
	}
}

func (m *mockUserRepo) Create(p *domain.UserProfile) error {
	m.profiles[p.UserID] = p
	return nil
}

func (m *mockUserRepo) FindByID(userID string) (*domain.UserProfile, error) {
	if p, exists := m.profiles[userID]; exists {
		return p, nil
	}
	return nil, errors.New("profile not found")
}

func (m *mockUserRepo) Update(p *domain.UserProfile) error {
	if _, exists := m.profiles[p.UserID]; !exists {
		return errors.New("profile not found")
	}
	m.profiles[p.UserID] = p
	return nil
}

func TestGetProfileMissing(t *testing.T) {
	service := NewUserService(newMockUserRepo())

	if _, err := service.GetProfile("user1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveProfileCreatesThenUpdates(t *testing.T) {
	repo := newMockUserRepo()
	service := NewUserService(repo)

	created, err := service.SaveProfile("user1", &domain.UpdateProfileRequest{FirstName: "Anna", LastName: "Rossi"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.FirstName != "Anna" {
		t.Errorf("expected first name persisted, got %s", created.FirstName)
	}

	updated, err := service.SaveProfile("user1", &domain.UpdateProfileRequest{FirstName: "Anna", LastName: "Bianchi"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.LastName != "Bianchi" {
		t.Errorf("expected last name updated, got %s", updated.LastName)
	}
	if len(repo.profiles) != 1 {
		t.Errorf("expected a single profile document, got %d", len(repo.profiles))
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("expected creation time preserved on update")
	}
}
