package persistence

import (
	"context"

	"GroupLink/internal/modules/group/domain/entity"
	"GroupLink/internal/modules/group/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type groupRecordRepositoryImpl struct {
	db *gorm.DB
}

func NewGroupRecordRepository(db *gorm.DB) repository.GroupRecordRepository {
	return &groupRecordRepositoryImpl{db: db}
}

func (r *groupRecordRepositoryImpl) CreateGroupRecord(ctx context.Context, record *entity.GroupRecord) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(record).Error, "CreateGroupRecord")
}
