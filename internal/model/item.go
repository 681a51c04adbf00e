package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Item is a single priced entry belonging to one post. Items are created
// together with their post and are never mutated afterwards.
type Item struct {
	ID       uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Name     string          `json:"name" gorm:"size:255;not null"`
	Price    decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Image    string          `json:"image" gorm:"type:mediumtext"` // data URL from the client
	Position int             `json:"-" gorm:"not null;default:0"`  // submission order; UUID keys carry no ordering
	PostID   uuid.UUID       `json:"postId" gorm:"type:char(36);not null;index"`
}

// BeforeCreate sets UUID before creating the record.
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
