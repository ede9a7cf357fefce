package services_test

import (
	"context"
	"testing"
	"time"

	"confbot/internal/core/domain"
	"confbot/internal/core/services"

	"github.com/stretchr/testify/assert"
)

func TestAuthService_Role(t *testing.T) {
	ctx := context.Background()

	mockUsers := new(MockUserRepository)
	auth := services.NewAuthService(mockUsers, "test-secret", time.Hour)

	mockUsers.On("LookupRole", ctx, domain.Identity(301)).Return(domain.RoleTeacher, nil)
	mockUsers.On("LookupRole", ctx, domain.Identity(999)).Return(domain.RoleGuest, nil)

	role, err := auth.Role(ctx, 301)
	assert.NoError(t, err)
	assert.Equal(t, domain.RoleTeacher, role)

	// A missing user is a guest, not an error.
	role, err = auth.Role(ctx, 999)
	assert.NoError(t, err)
	assert.Equal(t, domain.RoleGuest, role)
}

func TestAuthService_Authorize(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		role     domain.Role
		required []domain.Role
		allowed  bool
	}{
		{"teacher may schedule", domain.RoleTeacher, []domain.Role{domain.RoleTeacher, domain.RoleAdmin}, true},
		{"admin may schedule", domain.RoleAdmin, []domain.Role{domain.RoleTeacher, domain.RoleAdmin}, true},
		{"student may not schedule", domain.RoleStudent, []domain.Role{domain.RoleTeacher, domain.RoleAdmin}, false},
		{"guest may not schedule", domain.RoleGuest, []domain.Role{domain.RoleTeacher, domain.RoleAdmin}, false},
		{"student is a registered user", domain.RoleStudent, []domain.Role{domain.RoleStudent, domain.RoleTeacher, domain.RoleAdmin}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			auth := services.NewAuthService(mockUsers, "test-secret", time.Hour)

			identity := domain.Identity(100)
			mockUsers.On("LookupRole", ctx, identity).Return(tt.role, nil)

			allowed, err := auth.Authorize(ctx, identity, tt.required...)
			assert.NoError(t, err)
			assert.Equal(t, tt.allowed, allowed)
		})
	}
}

func TestAuthService_Tokens(t *testing.T) {
	mockUsers := new(MockUserRepository)
	auth := services.NewAuthService(mockUsers, "test-secret", time.Hour)

	t.Run("round trip", func(t *testing.T) {
		token, err := auth.GenerateToken(301, "teacher_olga")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := auth.ValidateToken(token)
		assert.NoError(t, err)
		assert.Equal(t, domain.Identity(301), claims.Identity)
		assert.Equal(t, "teacher_olga", claims.Handle)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		other := services.NewAuthService(mockUsers, "other-secret", time.Hour)
		token, err := other.GenerateToken(301, "teacher_olga")
		assert.NoError(t, err)

		_, err = auth.ValidateToken(token)
		assert.ErrorIs(t, err, services.ErrInvalidToken)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := auth.ValidateToken("not.a.token")
		assert.Error(t, err)
	})
}
