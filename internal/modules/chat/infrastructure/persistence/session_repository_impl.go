package persistence

import (
	"context"
	"errors"

	"GroupLink/internal/modules/chat/domain/entity"
	"GroupLink/internal/modules/chat/domain/repository"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

type sessionRepositoryImpl struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) repository.SessionRepository {
	return &sessionRepositoryImpl{db: db}
}

func (r *sessionRepositoryImpl) GetGroupNotDisturb(ctx context.Context, userID, groupID int64) (bool, error) {
	var sess entity.ChatSession
	err := r.db.WithContext(ctx).
		Select("not_disturb").
		Where("user_id = ? AND group_id = ? AND type = ?", userID, groupID, entity.SessionGroup).
		First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, pkgerrors.Wrap(err, "GetGroupNotDisturb")
	}
	return sess.NotDisturb, nil
}
