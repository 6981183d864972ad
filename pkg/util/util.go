package util

import (
	"strconv"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

var (
	nodeOnce sync.Once
	node     *snowflake.Node
	nodeID   int64
)

// InitIDNode 设置雪花算法节点号，需在第一次生成 ID 之前调用
func InitIDNode(id int64) {
	nodeID = id
}

// GenerateID 生成全局唯一的 int64 ID（群组、成员、公告、记录共用）
func GenerateID() int64 {
	nodeOnce.Do(func() {
		var err error
		node, err = snowflake.NewNode(nodeID)
		if err != nil {
			panic(err)
		}
	})
	return node.Generate().Int64()
}

// GenerateUUID 生成一个标准的 UUID (v4)
func GenerateUUID() string {
	return uuid.New().String()
}

// ParseIDList 解析 "1,2,3" 形式的 ID 列表，空项跳过，结果去重且保持顺序
func ParseIDList(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil || id <= 0 {
			return nil, strconv.ErrSyntax
		}
		ids = append(ids, id)
	}
	return lo.Uniq(ids), nil
}
