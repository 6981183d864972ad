package persistence

import (
	"context"
	"time"

	"GroupLink/internal/modules/group/domain/entity"
	"GroupLink/internal/modules/group/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type groupInfoRepositoryImpl struct {
	db *gorm.DB
}

func NewGroupInfoRepository(db *gorm.DB) repository.GroupInfoRepository {
	return &groupInfoRepositoryImpl{db: db}
}

func (r *groupInfoRepositoryImpl) CreateGroupInfo(ctx context.Context, group *entity.GroupInfo) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(group).Error, "CreateGroupInfo")
}

func (r *groupInfoRepositoryImpl) GetGroupInfoByID(ctx context.Context, id int64) (*entity.GroupInfo, error) {
	var g entity.GroupInfo
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&g).Error
	if err != nil {
		return nil, errors.Wrap(err, "GetGroupInfoByID")
	}
	return &g, nil
}

func (r *groupInfoRepositoryImpl) UpdateGroupProfile(ctx context.Context, id int64, name, profile, avatar string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.GroupInfo{}).
		Where("id = ? AND status = ?", id, entity.GroupActive).
		Updates(map[string]interface{}{
			"name":       name,
			"profile":    profile,
			"avatar":     avatar,
			"updated_at": at,
		})
	return res.RowsAffected, errors.Wrap(res.Error, "UpdateGroupProfile")
}

func (r *groupInfoRepositoryImpl) MarkDismissed(ctx context.Context, id int64, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.GroupInfo{}).
		Where("id = ? AND status = ?", id, entity.GroupActive).
		Updates(map[string]interface{}{
			"status":       entity.GroupDismissed,
			"dismissed_at": at,
			"updated_at":   at,
		})
	return res.RowsAffected, errors.Wrap(res.Error, "MarkDismissed")
}
