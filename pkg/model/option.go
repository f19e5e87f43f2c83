package model

import "time"

// Option is a single settings row. Value holds the JSON encoding of the
// stored value.
type Option struct {
	Name      string    `gorm:"column:name;primaryKey"`
	Value     string    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Option) TableName() string {
	return "orchestra_options"
}
