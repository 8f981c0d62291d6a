package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/model"
)

// CreateSubscription inserts the pair. Self subscription is rejected by the
// chk_subscriptions_no_self constraint and duplicates by the unique index.
func (s *Store) CreateSubscription(ctx context.Context, subscriberID, authorID uuid.UUID) error {
	sub := &model.Subscription{SubscriberID: subscriberID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(sub).Error; err != nil {
		return s.fail("create subscription", err)
	}
	return nil
}

func (s *Store) DeleteSubscription(ctx context.Context, subscriberID, authorID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Delete(&model.Subscription{})
	if res.Error != nil {
		return s.fail("delete subscription", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNothingToRemove
	}
	return nil
}

// ListSubscribedAuthors returns a page of the users subscriberID follows,
// ordered by username, with the total count.
func (s *Store) ListSubscribedAuthors(ctx context.Context, subscriberID uuid.UUID, page Page) ([]model.User, int64, error) {
	followed := s.db.Model(&model.Subscription{}).Select("author_id").Where("subscriber_id = ?", subscriberID)
	q := s.db.WithContext(ctx).Model(&model.User{}).Where("id IN (?)", followed)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, s.fail("count subscriptions", err)
	}
	var authors []model.User
	if err := page.apply(q.Session(&gorm.Session{}).Order("username")).Find(&authors).Error; err != nil {
		return nil, 0, s.fail("list subscriptions", err)
	}
	return authors, total, nil
}

// SubscribedAuthors reports which of authorIDs subscriberID follows.
func (s *Store) SubscribedAuthors(ctx context.Context, subscriberID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ? AND author_id IN ?", subscriberID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, s.fail("subscribed authors", err)
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
