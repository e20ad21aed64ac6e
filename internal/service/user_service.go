package service

import (
	"github.com/google/uuid"

	"github.com/RikitaRoy3/Chatly/internal/domain"
)

// UserService provides user-related services.
type UserService struct {
	userRepo IUserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Signup creates a new user account.
func (s *UserService) Signup(fullName, email, password string) (*domain.User, error) {
	existingUser, err := s.userRepo.GetUserByEmail(domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, domain.ErrEmailTaken
	}

	// The domain constructor validates fields and hashes the password.
	newUser, err := domain.NewUser(fullName, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.CreateUser(newUser); err != nil {
		return nil, err
	}

	return newUser, nil
}

// Login authenticates a user by email and password.
func (s *UserService) Login(email, password string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByEmail(domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *UserService) GetUserByID(id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies the non-empty fields of the update to the user's
// profile.
func (s *UserService) UpdateProfile(id uuid.UUID, update domain.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if update.FullName != "" {
		user.FullName = update.FullName
	}
	if update.Email != "" {
		email := domain.NormalizeEmail(update.Email)
		if !domain.ValidEmail(email) {
			return nil, domain.ErrInvalidEmail
		}
		if email != user.Email {
			existing, err := s.userRepo.GetUserByEmail(email)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, domain.ErrEmailTaken
			}
			user.Email = email
		}
	}
	if update.Password != "" {
		if err := user.SetPassword(update.Password); err != nil {
			return nil, err
		}
	}
	if update.ProfilePic != "" {
		user.ProfilePic = update.ProfilePic
	}

	if err := s.userRepo.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}
