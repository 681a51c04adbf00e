package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpiryWindow is how long a post stays listed after creation or extension.
const ExpiryWindow = 7 * 24 * time.Hour

// Post represents a classified listing. A post is "active" while
// ExpiresAt is in the future; expired posts are filtered at query time
// and never deleted.
type Post struct {
	ID          uuid.UUID        `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string           `json:"title" gorm:"size:255;not null"`
	Price       *decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	ContactInfo string           `json:"contactInfo" gorm:"size:255;not null"`
	CreatedAt   time.Time        `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	ExpiresAt   time.Time        `json:"expiresAt" gorm:"index;not null"`
	UserID      uuid.UUID        `json:"userId" gorm:"type:char(36);not null;index"`

	// Relations
	User  *User  `json:"-" gorm:"foreignKey:UserID"`
	Items []Item `json:"items" gorm:"foreignKey:PostID"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Active reports whether the post is still listed at the given instant.
func (p *Post) Active(now time.Time) bool {
	return p.ExpiresAt.After(now)
}
