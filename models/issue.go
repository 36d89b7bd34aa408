package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueStatus enum
type IssueStatus string

const (
	StatusPending    IssueStatus = "pending"
	StatusUnassigned IssueStatus = "unassigned"
	StatusAssigned   IssueStatus = "assigned"
	StatusInProgress IssueStatus = "in progress"
	StatusResolved   IssueStatus = "resolved"
	StatusDone       IssueStatus = "done"
)

// Location is a WGS84 coordinate pair attached to an issue.
type Location struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// InRange reports whether the coordinates are on the globe.
func (l Location) InRange() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

// Issue represents a civic problem reported by a citizen
type Issue struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ReporterEmail    string              `bson:"reporter_email" json:"reporter_email"`
	Description      string              `bson:"description" json:"description"`
	CityStreet       string              `bson:"city_street" json:"city_street"`
	Category         string              `bson:"category" json:"category"`
	Location         Location            `bson:"location" json:"location"`
	ImageFileID      *primitive.ObjectID `bson:"image_file_id,omitempty" json:"image_file_id,omitempty"`
	Status           IssueStatus         `bson:"status" json:"status"`
	AssignedTo       *string             `bson:"assigned_to" json:"assigned_to"`
	MaintenanceEmail *string             `bson:"maintenance_email" json:"maintenance_email"`
	Timestamp        time.Time           `bson:"timestamp" json:"timestamp"`
}
