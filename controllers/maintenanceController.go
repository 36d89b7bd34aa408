package controllers

import (
	"context"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"cityfix-be/models"
	"cityfix-be/store"
	"cityfix-be/utils"
)

type MaintenanceController struct {
	issues  store.IssueStore
	users   store.UserStore
	dones   store.DoneReportStore
	rejects store.RejectionStore
	blobs   store.BlobStore
}

func NewMaintenanceController(issues store.IssueStore, users store.UserStore, dones store.DoneReportStore, rejects store.RejectionStore, blobs store.BlobStore) *MaintenanceController {
	return &MaintenanceController{issues: issues, users: users, dones: dones, rejects: rejects, blobs: blobs}
}

// assignedIssue is an issue annotated with its review state, joined against
// the completion reports and rejection log at read time.
type assignedIssue struct {
	models.Issue
	Awaiting        bool   `json:"awaiting"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// Dashboard lists the technician's open assignments. Issues whose
// completion report was already accepted drop out; ones awaiting review or
// recently rejected are flagged.
func (m *MaintenanceController) Dashboard(c *gin.Context) {
	email := currentEmail(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := m.users.GetByEmail(ctx, email)
	if err != nil {
		utils.SetFlash(c, "danger", "User not found")
		c.Redirect(http.StatusFound, "/")
		return
	}

	assigned, err := m.issues.ListByAssignee(ctx, email)
	if err != nil {
		log.Println("Error listing assigned issues:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	rejections, err := m.rejects.ListByTechnician(ctx, email)
	if err != nil {
		log.Println("Error listing rejections:", err)
		rejections = nil
	}
	latestReason := map[string]string{}
	latestAt := map[string]time.Time{}
	for _, entry := range rejections {
		if entry.Timestamp.After(latestAt[entry.OriginalIssueID]) {
			latestAt[entry.OriginalIssueID] = entry.Timestamp
			latestReason[entry.OriginalIssueID] = entry.RejectionReason
		}
	}

	issues := []assignedIssue{}
	for _, issue := range assigned {
		id := issue.ID.Hex()
		item := assignedIssue{Issue: issue}

		if report, err := m.dones.FindByIssue(ctx, id); err == nil {
			if report.Accepted() {
				continue
			}
			item.Awaiting = true
		} else if reason, ok := latestReason[id]; ok {
			item.RejectionReason = reason
		}
		issues = append(issues, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"user":           user,
		"issues":         issues,
		"rejected_count": m.openRejectionCount(ctx, rejections),
	})
}

// openRejectionCount counts rejection entries whose issue is still not
// done, i.e. rework the technician still owes.
func (m *MaintenanceController) openRejectionCount(ctx context.Context, rejections []models.RejectedReport) int {
	count := 0
	for _, entry := range rejections {
		issue, err := m.issues.GetByID(ctx, entry.OriginalIssueID)
		if err != nil {
			continue
		}
		if issue.Status != models.StatusDone {
			count++
		}
	}
	return count
}

// UpdateStatus lets the assigned technician move an issue to "in progress"
// or "resolved". Any other value is silently ignored.
func (m *MaintenanceController) UpdateStatus(c *gin.Context) {
	email := currentEmail(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := m.issues.GetByID(ctx, c.Param("issue_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	if issue.AssignedTo == nil || *issue.AssignedTo != email {
		utils.SetFlash(c, "danger", "Access denied.")
		c.Redirect(http.StatusFound, "/maintenance/dashboard")
		return
	}

	switch models.IssueStatus(c.PostForm("status")) {
	case models.StatusInProgress, models.StatusResolved:
		if err := m.issues.SetStatus(ctx, issue.ID.Hex(), models.IssueStatus(c.PostForm("status"))); err != nil {
			log.Println("Error updating status:", err)
			utils.SetFlash(c, "danger", "Something went wrong")
			c.Redirect(http.StatusFound, "/maintenance/dashboard")
			return
		}
		utils.SetFlash(c, "success", "Status updated!")
	}

	c.Redirect(http.StatusFound, "/maintenance/dashboard")
}

// Complete records a completion report with before/after evidence. The
// issue's own status is not touched here; completion is tracked purely by
// the report's existence until an admin reviews it.
func (m *MaintenanceController) Complete(c *gin.Context) {
	email := currentEmail(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := m.issues.GetByID(ctx, c.Param("issue_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	if issue.AssignedTo == nil || *issue.AssignedTo != email {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not assigned to this issue"})
		return
	}

	report := models.DoneReport{
		OriginalIssueID:       issue.ID.Hex(),
		CompletionDescription: strings.TrimSpace(c.PostForm("completion_description")),
		Technician:            email,
		Timestamp:             time.Now().UTC(),
	}
	report.BeforeFileID = m.storeUpload(ctx, c, "before_image")
	report.AfterFileID = m.storeUpload(ctx, c, "after_image")

	if err := m.dones.Create(ctx, &report); err != nil {
		log.Println("Error inserting done report:", err)
		utils.SetFlash(c, "danger", "Something went wrong")
		c.Redirect(http.StatusFound, "/maintenance/dashboard")
		return
	}

	utils.SetFlash(c, "success", "Work completion report submitted!")
	c.Redirect(http.StatusFound, "/maintenance/dashboard")
}

func (m *MaintenanceController) storeUpload(ctx context.Context, c *gin.Context, field string) *primitive.ObjectID {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		return nil
	}
	defer file.Close()

	id, err := m.blobs.Put(ctx, filepath.Base(header.Filename), header.Header.Get("Content-Type"), file)
	if err != nil {
		log.Printf("Error storing %s: %v", field, err)
		return nil
	}
	return &id
}

// rejectedEntry is a rejection-log row plus the original issue's photo so
// the technician can see what the report was about.
type rejectedEntry struct {
	models.RejectedReport
	ImageFileID *primitive.ObjectID `json:"image_file_id,omitempty"`
}

// RejectedReports lists the technician's rejections that still need rework.
func (m *MaintenanceController) RejectedReports(c *gin.Context) {
	email := currentEmail(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := m.users.GetByEmail(ctx, email)
	if err != nil {
		utils.SetFlash(c, "danger", "User not found")
		c.Redirect(http.StatusFound, "/")
		return
	}

	entries, err := m.rejects.ListByTechnician(ctx, email)
	if err != nil {
		log.Println("Error listing rejections:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	reports := []rejectedEntry{}
	for _, entry := range entries {
		issue, err := m.issues.GetByID(ctx, entry.OriginalIssueID)
		if err != nil || issue.Status == models.StatusDone {
			continue
		}
		reports = append(reports, rejectedEntry{RejectedReport: entry, ImageFileID: issue.ImageFileID})
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "reports": reports})
}
