package repository

import (
	"context"

	"GroupLink/internal/modules/user/domain/entity"
)

type UserFriendRepository interface {
	// ListFriendsWithUser 正常状态的好友及其资料
	ListFriendsWithUser(ctx context.Context, userID int64) ([]entity.FriendWithUser, error)
}
