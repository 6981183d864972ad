package repository

import (
	"context"

	"GroupLink/internal/modules/user/domain/entity"
)

type UserInfoRepository interface {
	GetUserBriefByIDs(ctx context.Context, ids []int64) ([]entity.UserBrief, error)
}
