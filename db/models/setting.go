package models

import (
	"time"
)

// Setting is a system-wide key/value pair, editable by admins only.
type Setting struct {
	Key       string    `gorm:"primary_key" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedBy *string   `json:"updated_by"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
