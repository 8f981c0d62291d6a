package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/platform/logger"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/types"
)

const avatarPrefix = "users/avatars"

// ProfileService handles user profile operations
type ProfileService struct {
	store  *store.Store
	images storage.ImageStore
	log    *logger.Logger
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

func NewProfileService(s *store.Store, images storage.ImageStore, log *logger.Logger) *ProfileService {
	return &ProfileService{store: s, images: images, log: log.With("component", "profile")}
}

// Me returns the caller's own profile. is_subscribed is always false.
func (s *ProfileService) Me(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := toUserProfile(u, false)
	return &p, nil
}

// GetProfile returns userID's profile as seen by viewer (nil for anonymous).
func (s *ProfileService) GetProfile(ctx context.Context, viewer *uuid.UUID, userID uuid.UUID) (*types.UserProfile, error) {
	var out types.UserProfile
	err := s.store.ReadTransaction(ctx, func(tx *store.Store) error {
		u, err := tx.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		subscribed, err := subscribedTo(ctx, tx, viewer, []uuid.UUID{u.ID})
		if err != nil {
			return err
		}
		out = toUserProfile(u, subscribed[u.ID])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProfileService) ListUsers(ctx context.Context, viewer *uuid.UUID, page store.Page) (*types.Page[types.UserProfile], error) {
	out := &types.Page[types.UserProfile]{Results: []types.UserProfile{}}
	err := s.store.ReadTransaction(ctx, func(tx *store.Store) error {
		users, total, err := tx.ListUsers(ctx, page)
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		subscribed, err := subscribedTo(ctx, tx, viewer, ids)
		if err != nil {
			return err
		}
		out.Count = total
		for i := range users {
			out.Results = append(out.Results, toUserProfile(&users[i], subscribed[users[i].ID]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetAvatar stores the image and points the user at it.
func (s *ProfileService) SetAvatar(ctx context.Context, userID uuid.UUID, dataURI string) (string, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return "", err
	}
	ref, err := s.images.Save(ctx, avatarPrefix, dataURI)
	if err != nil {
		return "", err
	}
	if err := s.store.SetAvatar(ctx, userID, &ref); err != nil {
		return "", err
	}
	return ref, nil
}

func (s *ProfileService) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	return s.store.SetAvatar(ctx, userID, nil)
}

// SetPassword replaces the password after checking the current one.
func (s *ProfileService) SetPassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.SetPasswordHash(ctx, userID, string(hash)); err != nil {
		return err
	}
	s.log.Info("password changed", "user_id", userID)
	return nil
}

func subscribedTo(ctx context.Context, tx *store.Store, viewer *uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	if viewer == nil {
		return map[uuid.UUID]bool{}, nil
	}
	return tx.SubscribedAuthors(ctx, *viewer, authorIDs)
}

// userIDs collects the distinct authors of recipes.
func userIDs(recipes []model.Recipe) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(recipes))
	out := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		if !seen[r.AuthorID] {
			seen[r.AuthorID] = true
			out = append(out, r.AuthorID)
		}
	}
	return out
}
