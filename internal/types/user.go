package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "free"
	TierMonthly    SubscriptionTier = "monthly"
	TierAnnual     SubscriptionTier = "annual"
	TierEnterprise SubscriptionTier = "enterprise"
)

type User struct {
	ID               uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email            string           `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Name             string           `gorm:"column:name" json:"name,omitempty"`
	SubscriptionTier SubscriptionTier `gorm:"column:subscription_tier;not null;default:'free'" json:"subscription_tier"`
	StripeCustomerID string           `gorm:"column:stripe_customer_id" json:"stripe_customer_id,omitempty"`
	CreatedAt        time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "users" }
