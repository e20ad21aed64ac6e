package postgres

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/RikitaRoy3/Chatly/internal/domain"
)

// UserRepository handles database operations for users.
type UserRepository struct {
	DB *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// CreateUser inserts a new user into the database.
func (r *UserRepository) CreateUser(user *domain.User) error {
	query := `INSERT INTO users (id, full_name, email, password_hash, profile_pic, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.Exec(query, user.ID, user.FullName, user.Email, user.PasswordHash, user.ProfilePic, user.CreatedAt)
	return err
}

// GetUserByEmail retrieves a user by their email address.
func (r *UserRepository) GetUserByEmail(email string) (*domain.User, error) {
	user := &domain.User{}
	query := `SELECT id, full_name, email, password_hash, profile_pic, created_at FROM users WHERE email = $1`
	err := r.DB.QueryRow(query, email).Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &user.ProfilePic, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // No user found is not an application error
		}
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(id uuid.UUID) (*domain.User, error) {
	user := &domain.User{}
	query := `SELECT id, full_name, email, password_hash, profile_pic, created_at FROM users WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &user.ProfilePic, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser persists changes to an existing user's profile.
func (r *UserRepository) UpdateUser(user *domain.User) error {
	query := `UPDATE users SET full_name = $2, email = $3, password_hash = $4, profile_pic = $5 WHERE id = $1`
	_, err := r.DB.Exec(query, user.ID, user.FullName, user.Email, user.PasswordHash, user.ProfilePic)
	return err
}
