package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// GreetingClient fetches the greeting from the test service.
type GreetingClient interface {
	FetchGreeting(ctx context.Context) (string, error)
}

type Service interface {
	// SaveUser stores a new user and echoes the request DTO. The generated
	// identifier is not part of the response.
	SaveUser(ctx context.Context, dto UserDto) (UserDto, error)
	// Test relays the test service greeting verbatim.
	Test(ctx context.Context) (string, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

type service struct {
	repo      Repository
	greetings GreetingClient
}

func NewService(repo Repository, greetings GreetingClient) Service {
	return &service{
		repo:      repo,
		greetings: greetings,
	}
}

func (s *service) SaveUser(ctx context.Context, dto UserDto) (UserDto, error) {
	stored, err := s.repo.Save(ctx, dto.toEntity())
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("service: failed to save user in repository")
		return UserDto{}, fmt.Errorf("service: failed to save user: %w", err)
	}

	log.Ctx(ctx).Info().Int64("user_id", stored.ID).Msg("service: user saved")

	return dto, nil
}

func (s *service) Test(ctx context.Context) (string, error) {
	greeting, err := s.greetings.FetchGreeting(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("service: failed to fetch greeting from test service")
		return "", fmt.Errorf("service: failed to fetch greeting: %w", err)
	}

	return greeting, nil
}

func (s *service) GetUserByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		log.Ctx(ctx).Error().Err(err).Int64("user_id", id).Msg("service: failed to get user by id in repository")
		return nil, fmt.Errorf("service: failed to get user by id '%d': %w", id, err)
	}

	return user, nil
}

func (s *service) ListUsers(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("service: failed to list users in repository")
		return nil, fmt.Errorf("service: failed to list users: %w", err)
	}

	return users, nil
}
