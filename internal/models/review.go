package models

import (
	"time"

	"github.com/lib/pq"
)

// ReviewStatus is the moderation state of a review. Only approved
// reviews are publicly visible and counted in the product rating.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// Review is a customer's product review. One review exists per
// (user, product) pair. IsVerifiedPurchase is set when the referenced
// order belongs to the reviewer, was delivered, and contains the product.
type Review struct {
	ID                 string         `json:"id"`
	ProductID          string         `json:"productId"`
	UserID             string         `json:"userId"`
	OrderID            *string        `json:"orderId,omitempty"`
	Rating             int            `json:"rating"`
	Title              string         `json:"title,omitempty"`
	Comment            string         `json:"comment"`
	Images             pq.StringArray `json:"images,omitempty"`
	Status             ReviewStatus   `json:"status"`
	IsVerifiedPurchase bool           `json:"isVerifiedPurchase"`
	AdminResponse      *string        `json:"adminResponse,omitempty"`
	RespondedAt        *time.Time     `json:"respondedAt,omitempty"`
	Helpful            int            `json:"helpful"`
	NotHelpful         int            `json:"notHelpful"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}
