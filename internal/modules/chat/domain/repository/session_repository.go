package repository

import "context"

type SessionRepository interface {
	// GetGroupNotDisturb 没有会话记录时返回 false
	GetGroupNotDisturb(ctx context.Context, userID, groupID int64) (bool, error)
}
