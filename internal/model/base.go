package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EpochTimestamps stores creation and modification times as epoch milliseconds,
// the representation used by the imported dataset.
type EpochTimestamps struct {
	CreateDate int64 `gorm:"column:create_date;index" json:"createDate"`
	UpdateDate int64 `gorm:"column:update_date;index" json:"updateDate"`
}

// Touch refreshes UpdateDate. Every mutating operation calls it.
func (t *EpochTimestamps) Touch() {
	t.UpdateDate = NowMillis()
}

// swagger:model
type UUIDBase struct {
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`
}

func (b *UUIDBase) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return
}

func GenerateUUID() string {
	return uuid.New().String()
}

func NowMillis() int64 {
	return time.Now().UnixMilli()
}
