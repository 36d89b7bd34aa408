package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RejectedReport is an append-only record of an admin turning down a
// completion report. Entries are never mutated or deleted.
type RejectedReport struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OriginalIssueID string             `bson:"original_issue_id" json:"original_issue_id"`
	Technician      string             `bson:"technician" json:"technician"`
	RejectionReason string             `bson:"rejection_reason" json:"rejection_reason"`
	Admin           string             `bson:"admin" json:"admin"`
	Timestamp       time.Time          `bson:"timestamp" json:"timestamp"`
}
