package model

import (
	"time"
)

// 時間欄位由 gorm 自動維護, 不依賴 db default 以便 sqlite 與 postgres 共用
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}
