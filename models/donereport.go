package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DoneReportAccepted is set on a completion report once an admin accepts it.
// A report with an empty status is still awaiting review.
const DoneReportAccepted = "accepted"

// DoneReport is the evidence a maintenance technician submits after working
// an assigned issue. It references the issue by id only; the issue document
// itself is not modified at submission time.
type DoneReport struct {
	ID                    primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OriginalIssueID       string              `bson:"original_issue_id" json:"original_issue_id"`
	CompletionDescription string              `bson:"completion_description" json:"completion_description"`
	BeforeFileID          *primitive.ObjectID `bson:"before_file_id,omitempty" json:"before_file_id,omitempty"`
	AfterFileID           *primitive.ObjectID `bson:"after_file_id,omitempty" json:"after_file_id,omitempty"`
	Technician            string              `bson:"technician" json:"technician"`
	Status                string              `bson:"status,omitempty" json:"status,omitempty"`
	Timestamp             time.Time           `bson:"timestamp" json:"timestamp"`
}

// Accepted reports whether an admin has already accepted this report.
func (d *DoneReport) Accepted() bool { return d.Status == DoneReportAccepted }
