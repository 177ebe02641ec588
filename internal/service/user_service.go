package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/teampulse/api/internal/models"
	"github.com/teampulse/api/internal/repository"
)

type UserService interface {
	GetUserInfo(ctx context.Context, id int64) (*models.User, error)
	LinkMemberURN(ctx context.Context, userID int64, memberURN string) error
}

type userService struct {
	u repository.UserRepository
}

func NewUserService(u repository.UserRepository) UserService {
	return &userService{
		u: u,
	}
}

func (s *userService) GetUserInfo(ctx context.Context, id int64) (*models.User, error) {
	user, isExist, err := s.u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isExist {
		err = errors.New("user not found")
		slog.Info(err.Error())
		return nil, err
	}

	return user, nil
}

// LinkMemberURN records the employee's LinkedIn member URN so their
// engagement can be matched during sync.
func (s *userService) LinkMemberURN(ctx context.Context, userID int64, memberURN string) error {
	memberURN = strings.TrimSpace(memberURN)
	if !strings.HasPrefix(memberURN, "urn:li:person:") {
		err := errors.New("member urn must look like urn:li:person:...")
		slog.Info(err.Error())
		return err
	}

	return s.u.SetMemberURN(ctx, userID, memberURN)
}
