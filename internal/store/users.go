package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/model"
)

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return s.fail("create user", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, s.fail("get user", err)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, s.fail("get user by email", err)
	}
	return &u, nil
}

// ListUsers returns a page of users ordered by username, with the total count.
func (s *Store) ListUsers(ctx context.Context, page Page) ([]model.User, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.User{})
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, s.fail("count users", err)
	}
	var users []model.User
	if err := page.apply(q.Session(&gorm.Session{}).Order("username")).Find(&users).Error; err != nil {
		return nil, 0, s.fail("list users", err)
	}
	return users, total, nil
}

func (s *Store) SetAvatar(ctx context.Context, id uuid.UUID, avatar *string) error {
	res := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("avatar", avatar)
	if res.Error != nil {
		return s.fail("set avatar", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	res := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return s.fail("set password", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes a user with everything that depends on it: its recipes
// (and their lines, tag links and relations), its own favorites and cart
// items, and subscriptions in both directions.
func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.Transaction(ctx, func(tx *Store) error {
		var recipeIDs []uuid.UUID
		if err := tx.db.Model(&model.Recipe{}).Where("author_id = ?", id).Pluck("id", &recipeIDs).Error; err != nil {
			return tx.fail("delete user", err)
		}
		if err := tx.deleteRecipeRows(recipeIDs); err != nil {
			return err
		}
		if err := tx.db.Where("user_id = ?", id).Delete(&model.Favorite{}).Error; err != nil {
			return tx.fail("delete user favorites", err)
		}
		if err := tx.db.Where("user_id = ?", id).Delete(&model.CartItem{}).Error; err != nil {
			return tx.fail("delete user cart", err)
		}
		if err := tx.db.Where("subscriber_id = ? OR author_id = ?", id, id).Delete(&model.Subscription{}).Error; err != nil {
			return tx.fail("delete user subscriptions", err)
		}
		res := tx.db.Delete(&model.User{}, "id = ?", id)
		if res.Error != nil {
			return tx.fail("delete user", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
