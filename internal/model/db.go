package model

import (
	"time"

	"gorm.io/datatypes"
)

// GroupEntity 分组主体（ZMK），title 全局唯一；导入流程只查询不创建
type GroupEntity struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Title     string    `gorm:"column:title;type:varchar(255);uniqueIndex;not null;comment:名称"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;comment:创建时间"`
}

// Ticket 过磅单（RTC），(zmk_id, date, unloading_date, weight) 为自然键
type Ticket struct {
	ID            uint64       `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	GroupEntityID uint64       `gorm:"column:zmk_id;not null;uniqueIndex:uk_rtc_natural_key;comment:关联ZMK ID"`
	GroupEntity   *GroupEntity `gorm:"foreignKey:GroupEntityID;constraint:OnDelete:CASCADE"`
	Date          time.Time    `gorm:"column:date;type:date;not null;uniqueIndex:uk_rtc_natural_key;comment:开单日期"`
	UnloadingDate time.Time    `gorm:"column:unloading_date;type:date;not null;uniqueIndex:uk_rtc_natural_key;comment:卸货日期"`
	Weight        float64      `gorm:"column:weight;not null;uniqueIndex:uk_rtc_natural_key;comment:重量（吨）"`
	UPD           *string      `gorm:"column:upd;type:varchar(100);comment:UPD单据号"`
	Status        *string      `gorm:"column:status;type:varchar(100);comment:状态"`
	Lines         []TicketLine `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
}

// TicketLine 过磅单明细（RTCObject），只追加不更新
type TicketLine struct {
	ID           uint64  `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	TicketID     uint64  `gorm:"column:rtc_id;not null;index;comment:关联RTC ID"`
	ObjectWeight float64 `gorm:"column:object_weight;not null;comment:明细重量"`
}

// ImportRun 导入执行记录（每次上传/命令行导入一条）
type ImportRun struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	RunUUID   string         `gorm:"column:run_uuid;type:varchar(64);uniqueIndex;not null;comment:导入批次ID"`
	FileName  string         `gorm:"column:file_name;type:varchar(255);comment:文件名"`
	Status    string         `gorm:"column:status;type:varchar(16);not null;comment:状态：success/failed"`
	Error     *string        `gorm:"column:error;type:text;comment:失败原因"`
	Stats     datatypes.JSON `gorm:"column:stats;comment:按表统计"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime;comment:创建时间"`
}

const (
	ImportRunSuccess = "success"
	ImportRunFailed  = "failed"
)

func (GroupEntity) TableName() string { return "zmk" }
func (Ticket) TableName() string      { return "rtc" }
func (TicketLine) TableName() string  { return "rtc_object" }
func (ImportRun) TableName() string   { return "import_runs" }

// AllModels 按依赖顺序返回需要迁移的模型
func AllModels() []interface{} {
	return []interface{}{
		&GroupEntity{},
		&Ticket{},
		&TicketLine{},
		&ImportRun{},
	}
}
