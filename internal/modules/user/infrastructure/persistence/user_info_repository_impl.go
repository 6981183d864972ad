package persistence

import (
	"context"

	"GroupLink/internal/modules/user/domain/entity"
	"GroupLink/internal/modules/user/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type userInfoRepositoryImpl struct {
	db *gorm.DB
}

func NewUserInfoRepository(db *gorm.DB) repository.UserInfoRepository {
	return &userInfoRepositoryImpl{db: db}
}

func (r *userInfoRepositoryImpl) GetUserBriefByIDs(ctx context.Context, ids []int64) ([]entity.UserBrief, error) {
	if len(ids) == 0 {
		return []entity.UserBrief{}, nil
	}

	var users []entity.UserBrief
	err := r.db.WithContext(ctx).Model(&entity.UserInfo{}).
		Select("id", "nickname", "avatar", "gender", "motto", "status").
		Where("id IN ?", ids).
		Find(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "GetUserBriefByIDs")
	}
	return users, nil
}
