package service

import (
	"context"

	"github.com/dtarqui/project-ci-cd-sub000/internal/domain"
)

func (s *Service) GetUser(ctx context.Context, id int64) (domain.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, translateNotFound(err, domain.ErrUserNotFound, id)
	}
	return *user, nil
}
