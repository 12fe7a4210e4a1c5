package service

import (
	"context"
	"errors"
	"testing"
)

func TestUserServiceGetByID(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users)

	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserServiceUpdateProfile(t *testing.T) {
	fx := newAuthFixture()
	user := fx.seedUser("user@example.com", "password123")
	svc := NewUserService(fx.users)

	name := "  Ada Lovelace  "
	company := "Analytical Shipping"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, ProfileUpdate{
		FullName:    &name,
		CompanyName: &company,
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.FullName != "Ada Lovelace" {
		t.Fatalf("full name not trimmed: %q", updated.FullName)
	}
	if updated.CompanyName != "Analytical Shipping" {
		t.Fatalf("company = %q", updated.CompanyName)
	}
	// Untouched fields keep their values.
	if updated.Username != "user" {
		t.Fatalf("username changed unexpectedly: %q", updated.Username)
	}
}
