// Package store is the persistence boundary of the service. Handlers never
// touch collections directly; they go through these interfaces so the Mongo
// implementations can be swapped for in-memory fakes in tests.
package store

import (
	"context"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cityfix-be/models"
)

// UserStore is the identity store. Everything else in the system reads and
// writes accounts through it.
type UserStore interface {
	Ping(ctx context.Context) error
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	ListNonAdmin(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id string, upd UserUpdate) error
	DeleteByID(ctx context.Context, id string) (bool, error)
	DeleteByEmail(ctx context.Context, email string) error
}

// UserUpdate carries the mutable account fields; nil means leave as is.
// Password must already be hashed by the caller.
type UserUpdate struct {
	Name     *string
	Password *string
	Role     *string
}

type IssueStore interface {
	Create(ctx context.Context, issue *models.Issue) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id string) (*models.Issue, error)
	ListAll(ctx context.Context) ([]models.Issue, error)
	ListByReporter(ctx context.Context, email string) ([]models.Issue, error)
	ListByAssignee(ctx context.Context, email string) ([]models.Issue, error)
	CountByReporter(ctx context.Context, email string) (int64, error)
	// UpdateAssignment sets assigned_to and maintenance_email and moves the
	// status to "assigned"; an empty address clears both and moves the
	// status to "unassigned".
	UpdateAssignment(ctx context.Context, id, maintenanceEmail string) error
	SetStatus(ctx context.Context, id string, status models.IssueStatus) error
	Delete(ctx context.Context, id string) error
}

// DoneReportStore holds completion reports. Create refuses a report whose
// referenced issue does not exist, so a report can never be orphaned at
// submission time.
type DoneReportStore interface {
	Create(ctx context.Context, report *models.DoneReport) error
	GetByID(ctx context.Context, id string) (*models.DoneReport, error)
	FindByIssue(ctx context.Context, issueID string) (*models.DoneReport, error)
	ListAll(ctx context.Context) ([]models.DoneReport, error)
	MarkAccepted(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// RejectionStore is append-only; entries are never mutated or removed.
type RejectionStore interface {
	Append(ctx context.Context, entry *models.RejectedReport) error
	ListByTechnician(ctx context.Context, email string) ([]models.RejectedReport, error)
}

// Blob is an uploaded file read back out of the blob store.
type Blob struct {
	Filename    string
	ContentType string
	Data        []byte
}

type BlobStore interface {
	Put(ctx context.Context, filename, contentType string, src io.Reader) (primitive.ObjectID, error)
	Open(ctx context.Context, id string) (*Blob, error)
}
