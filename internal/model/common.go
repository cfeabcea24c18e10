package model

import (
	"errors"
	"time"
)

var (
	// ErrGroupNotFound 锚点标题找不到对应的 ZMK
	ErrGroupNotFound = errors.New("zmk not found")
	// ErrGroupExists ZMK 标题重复
	ErrGroupExists = errors.New("zmk already exists")
)

// InsertOutcome 单条过磅单插入结果
type InsertOutcome int

const (
	// Inserted 新建成功，已分配主键
	Inserted InsertOutcome = iota + 1
	// ExistingKey 自然键已存在，转入批量更新
	ExistingKey
)

func (o InsertOutcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case ExistingKey:
		return "existing_key"
	default:
		return "unknown"
	}
}

// UpdatableTicketFields 自然键冲突时批量更新的字段
var UpdatableTicketFields = []string{"weight", "status", "upd", "unloading_date"}

// NaturalKey 过磅单自然键
type NaturalKey struct {
	GroupEntityID uint64
	Date          time.Time
	UnloadingDate time.Time
	Weight        float64
}

// NaturalKey 返回过磅单的自然键
func (t *Ticket) NaturalKey() NaturalKey {
	return NaturalKey{
		GroupEntityID: t.GroupEntityID,
		Date:          t.Date,
		UnloadingDate: t.UnloadingDate,
		Weight:        t.Weight,
	}
}
