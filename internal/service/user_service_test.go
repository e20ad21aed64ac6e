package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/RikitaRoy3/Chatly/internal/domain"
)

func TestSignupAndLogin(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	user, err := svc.Signup("Alice", "Alice@Example.com", "secret1")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}

	if _, err := svc.Signup("Alice Again", "alice@example.com", "secret2"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("duplicate signup: got %v, want ErrEmailTaken", err)
	}

	got, err := svc.Login("alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != user.ID {
		t.Error("login returned a different user")
	}

	if _, err := svc.Login("alice@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login("nobody@example.com", "secret1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestSignupValidation(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	if _, err := svc.Signup("", "a@b.com", "secret1"); !errors.Is(err, domain.ErrMissingFields) {
		t.Errorf("missing name: got %v", err)
	}
	if _, err := svc.Signup("Ann", "a@b.com", "short"); !errors.Is(err, domain.ErrPasswordTooShort) {
		t.Errorf("short password: got %v", err)
	}
	if _, err := svc.Signup("Ann", "bad-email", "secret1"); !errors.Is(err, domain.ErrInvalidEmail) {
		t.Errorf("bad email: got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	user, err := svc.Signup("Alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	other, err := svc.Signup("Bob", "bob@example.com", "secret1")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	updated, err := svc.UpdateProfile(user.ID, domain.UpdateProfileRequest{
		FullName:   "Alice Cooper",
		ProfilePic: "pic.png",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.FullName != "Alice Cooper" || updated.ProfilePic != "pic.png" {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.Email != "alice@example.com" {
		t.Error("untouched fields must stay unchanged")
	}

	if _, err := svc.UpdateProfile(user.ID, domain.UpdateProfileRequest{Email: other.Email}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("taken email: got %v, want ErrEmailTaken", err)
	}

	if _, err := svc.UpdateProfile(uuid.New(), domain.UpdateProfileRequest{FullName: "x"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("unknown user: got %v, want ErrUserNotFound", err)
	}

	// Password change keeps login working with the new secret only.
	if _, err := svc.UpdateProfile(user.ID, domain.UpdateProfileRequest{Password: "newsecret"}); err != nil {
		t.Fatalf("UpdateProfile password: %v", err)
	}
	if _, err := svc.Login("alice@example.com", "newsecret"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
	if _, err := svc.Login("alice@example.com", "secret1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("old password must stop working: got %v", err)
	}
}
