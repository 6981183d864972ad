package persistence

import (
	"context"

	"GroupLink/internal/modules/user/domain/entity"
	"GroupLink/internal/modules/user/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type userFriendRepositoryImpl struct {
	db *gorm.DB
}

func NewUserFriendRepository(db *gorm.DB) repository.UserFriendRepository {
	return &userFriendRepositoryImpl{db: db}
}

func (r *userFriendRepositoryImpl) ListFriendsWithUser(ctx context.Context, userID int64) ([]entity.FriendWithUser, error) {
	var friends []entity.FriendWithUser
	err := r.db.WithContext(ctx).Table("user_friend").
		Select("user_info.id, user_info.nickname, user_info.avatar, user_info.gender, user_info.motto, user_info.status, user_friend.remark").
		Joins("JOIN user_info ON user_info.id = user_friend.friend_id").
		Where("user_friend.user_id = ? AND user_friend.status = 0", userID).
		Order("user_friend.id ASC").
		Find(&friends).Error
	if err != nil {
		return nil, errors.Wrap(err, "ListFriendsWithUser")
	}
	return friends, nil
}
