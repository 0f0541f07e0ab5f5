package application

import (
	"context"

	auditdomain "github.com/auditworks/audit-api/internal/audit/domain"
)

type userService struct {
	users UserRepository
}

func NewUserService(users UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) List(ctx context.Context) ([]auditdomain.User, error) {
	return s.users.List(ctx)
}
