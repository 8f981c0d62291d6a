package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/observability"
	"github.com/pageza/foodgram/backend/internal/platform/logger"
	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/types"
)

const subscriptionKind = "subscription"

type SubscriptionService struct {
	store   *store.Store
	metrics *observability.Metrics
	log     *logger.Logger
}

var _ ISubscriptionService = (*SubscriptionService)(nil)

func NewSubscriptionService(s *store.Store, metrics *observability.Metrics, log *logger.Logger) *SubscriptionService {
	return &SubscriptionService{store: s, metrics: metrics, log: log.With("component", "subscription")}
}

// Subscribe makes subscriberID follow authorID and returns the author's
// profile with their live recipe count and up to recipesLimit of their
// newest recipes (all when recipesLimit <= 0).
func (s *SubscriptionService) Subscribe(ctx context.Context, subscriberID, authorID uuid.UUID, recipesLimit int) (*types.AuthorProfile, error) {
	var profile types.AuthorProfile
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		author, err := tx.GetUser(ctx, authorID)
		if err != nil {
			return err
		}
		if subscriberID == authorID {
			return store.Violation(store.SelfReference, "author", "cannot subscribe to yourself")
		}
		if err := tx.CreateSubscription(ctx, subscriberID, authorID); err != nil {
			return err
		}
		profiles, err := authorProfiles(ctx, tx, subscriberID, []model.User{*author}, recipesLimit)
		if err != nil {
			return err
		}
		profile = profiles[0]
		return nil
	})
	s.metrics.RecordToggle(subscriptionKind, "add", err)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Unsubscribe removes the pair. It returns ErrNotFound for an unknown author
// and ErrNothingToRemove when the pair does not exist.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, subscriberID, authorID uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := tx.GetUser(ctx, authorID); err != nil {
			return err
		}
		return tx.DeleteSubscription(ctx, subscriberID, authorID)
	})
	s.metrics.RecordToggle(subscriptionKind, "remove", err)
	return err
}

// ListSubscriptions pages through the authors subscriberID follows.
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, subscriberID uuid.UUID, page store.Page, recipesLimit int) (*types.Page[types.AuthorProfile], error) {
	out := &types.Page[types.AuthorProfile]{Results: []types.AuthorProfile{}}
	err := s.store.ReadTransaction(ctx, func(tx *store.Store) error {
		authors, total, err := tx.ListSubscribedAuthors(ctx, subscriberID, page)
		if err != nil {
			return err
		}
		profiles, err := authorProfiles(ctx, tx, subscriberID, authors, recipesLimit)
		if err != nil {
			return err
		}
		out.Count = total
		out.Results = profiles
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// authorProfiles annotates authors for viewerID with subscription state,
// recipe counts and recipe previews.
func authorProfiles(ctx context.Context, tx *store.Store, viewerID uuid.UUID, authors []model.User, recipesLimit int) ([]types.AuthorProfile, error) {
	ids := make([]uuid.UUID, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := tx.CountRecipesByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}
	subscribed, err := tx.SubscribedAuthors(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	previews, err := tx.ListRecipesByAuthors(ctx, ids, recipesLimit)
	if err != nil {
		return nil, err
	}
	out := make([]types.AuthorProfile, 0, len(authors))
	for i := range authors {
		a := &authors[i]
		out = append(out, types.AuthorProfile{
			UserProfile:  toUserProfile(a, subscribed[a.ID]),
			RecipesCount: counts[a.ID],
			Recipes:      summarizeAll(previews[a.ID]),
		})
	}
	return out, nil
}

// IsSelfReference reports whether err is a rejected self subscription.
func IsSelfReference(err error) bool {
	var cv *store.ConstraintViolation
	return errors.As(err, &cv) && cv.Kind == store.SelfReference
}
