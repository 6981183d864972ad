package repository

import (
	"context"

	"GroupLink/internal/modules/group/domain/entity"
)

type GroupRecordRepository interface {
	CreateGroupRecord(ctx context.Context, record *entity.GroupRecord) error
}
