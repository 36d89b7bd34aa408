package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"cityfix-be/apperr"
	"cityfix-be/mailer"
	"cityfix-be/models"
	"cityfix-be/store"
	"cityfix-be/utils"
)

type ReportController struct {
	issues  store.IssueStore
	users   store.UserStore
	blobs   store.BlobStore
	mail    mailer.Mailer
	baseURL string
}

func NewReportController(issues store.IssueStore, users store.UserStore, blobs store.BlobStore, mail mailer.Mailer, baseURL string) *ReportController {
	return &ReportController{issues: issues, users: users, blobs: blobs, mail: mail, baseURL: baseURL}
}

func (r *ReportController) detailURL(issueID string) string {
	return r.baseURL + "/report/" + issueID
}

// Submit files a new issue. Coordinates are validated; the photo, if any,
// goes to the blob store and only its id is kept on the issue.
func (r *ReportController) Submit(c *gin.Context) {
	description := strings.TrimSpace(c.PostForm("description"))
	cityStreet := strings.TrimSpace(c.PostForm("city_street"))
	category := strings.TrimSpace(c.PostForm("category"))
	latStr := strings.TrimSpace(c.PostForm("lat"))
	lngStr := strings.TrimSpace(c.PostForm("lng"))

	lat, latErr := strconv.ParseFloat(latStr, 64)
	lng, lngErr := strconv.ParseFloat(lngStr, 64)
	if latErr != nil || lngErr != nil {
		utils.SetFlash(c, "danger", "Invalid coordinates.")
		c.Redirect(http.StatusFound, "/report_issue")
		return
	}
	location := models.Location{Lat: lat, Lng: lng}
	if !location.InRange() {
		utils.SetFlash(c, "danger", "Coordinates out of range.")
		c.Redirect(http.StatusFound, "/report_issue")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var imageID *primitive.ObjectID
	if file, header, err := c.Request.FormFile("image"); err == nil {
		defer file.Close()
		id, err := r.blobs.Put(ctx, filepath.Base(header.Filename), header.Header.Get("Content-Type"), file)
		if err != nil {
			log.Println("Error storing image:", err)
			utils.SetFlash(c, "danger", "Something went wrong")
			c.Redirect(http.StatusFound, "/report_issue")
			return
		}
		imageID = &id
	}

	issue := models.Issue{
		ReporterEmail: currentEmail(c),
		Description:   description,
		CityStreet:    cityStreet,
		Category:      category,
		Location:      location,
		ImageFileID:   imageID,
		Status:        models.StatusPending,
		Timestamp:     time.Now().UTC(),
	}
	if _, err := r.issues.Create(ctx, &issue); err != nil {
		log.Println("Error inserting issue:", err)
		utils.SetFlash(c, "danger", "Something went wrong")
		c.Redirect(http.StatusFound, "/report_issue")
		return
	}

	utils.SetFlash(c, "success", "Issue reported successfully!")
	c.Redirect(http.StatusFound, "/my_reports")
}

// MyReports lists the logged-in reporter's own issues.
func (r *ReportController) MyReports(c *gin.Context) {
	email := currentEmail(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := r.issues.ListByReporter(ctx, email)
	if err != nil {
		log.Println("Error listing reports:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	user, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		utils.SetFlash(c, "danger", "User not found")
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "issues": issues})
}

// Detail shows a single report. Anyone may view it.
func (r *ReportController) Detail(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := r.issues.GetByID(ctx, c.Param("issue_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"issue": issue})
}

// PublicList is the anonymous browse view: every issue, newest first, plus
// the distinct categories present.
func (r *ReportController) PublicList(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := r.issues.ListAll(ctx)
	if err != nil {
		log.Println("Error listing issues:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	seen := map[string]bool{}
	categories := []string{}
	for _, issue := range issues {
		if issue.Category != "" && !seen[issue.Category] {
			seen[issue.Category] = true
			categories = append(categories, issue.Category)
		}
	}
	sort.Strings(categories)

	c.JSON(http.StatusOK, gin.H{"issues": issues, "categories": categories})
}

// Delete removes an issue. Only the reporter or an admin may do it; the
// admin check goes to the identity store, not the session token.
func (r *ReportController) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := r.issues.GetByID(ctx, c.Param("issue_id"))
	if err != nil {
		if apperr.IsValidation(err) {
			utils.SetFlash(c, "danger", "Invalid report ID.")
		} else {
			utils.SetFlash(c, "danger", "Issue not found.")
		}
		redirectBack(c, "/dashboard")
		return
	}

	email := currentEmail(c)
	user, userErr := r.users.GetByEmail(ctx, email)
	isAdmin := userErr == nil && user.Role == models.RoleAdmin
	if issue.ReporterEmail != email && !isAdmin {
		utils.SetFlash(c, "danger", "Permission denied.")
		redirectBack(c, "/dashboard")
		return
	}

	if err := r.issues.Delete(ctx, issue.ID.Hex()); err != nil {
		log.Println("Error deleting issue:", err)
		utils.SetFlash(c, "danger", "Something went wrong")
		redirectBack(c, "/dashboard")
		return
	}

	utils.SetFlash(c, "success", "Issue deleted successfully.")
	redirectBack(c, "/dashboard")
}

// Assign sets or clears the maintenance assignee on an issue, then notifies
// the technician and the reporter. The write commits regardless of whether
// either email goes out.
func (r *ReportController) Assign(c *gin.Context) {
	issueID := c.Param("issue_id")
	maintenanceEmail := strings.TrimSpace(c.PostForm("maintenance_email"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := r.issues.UpdateAssignment(ctx, issueID, maintenanceEmail); err != nil {
		if apperr.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	issue, err := r.issues.GetByID(ctx, issueID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	if maintenanceEmail == "" {
		utils.SetFlash(c, "info", "Issue unassigned.")
		c.Redirect(http.StatusFound, "/admin/issues")
		return
	}

	mapLink := fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%v,%v",
		issue.Location.Lat, issue.Location.Lng)

	if err := r.mail.Send(
		maintenanceEmail,
		"You Have Been Assigned a New Report",
		fmt.Sprintf("Hello,\n\nDescription: %s\nLocation: %s\n%s",
			issue.Description, mapLink, r.detailURL(issueID)),
	); err != nil {
		log.Println("Error emailing technician:", err)
		utils.SetFlash(c, "warning", "Assigned but email failed.")
	} else {
		utils.SetFlash(c, "success", "Issue assigned and emailed.")
	}

	// Reporter notification is best effort too.
	if err := r.mail.Send(
		issue.ReporterEmail,
		"Your Report is Now Assigned",
		fmt.Sprintf("Hello,\n\nYour report has been assigned.\n%s", r.detailURL(issueID)),
	); err != nil {
		log.Println("Error emailing reporter:", err)
	}

	c.Redirect(http.StatusFound, "/admin/issues")
}

// AdminDashboard is the triage view: every issue plus the roster of
// maintenance accounts to assign them to.
func (r *ReportController) AdminDashboard(c *gin.Context) {
	email := currentEmail(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := r.issues.ListAll(ctx)
	if err != nil {
		log.Println("Error listing issues:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	maintenanceUsers, err := r.users.ListByRole(ctx, models.RoleMaintenance)
	if err != nil {
		log.Println("Error listing maintenance users:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	user, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		utils.SetFlash(c, "danger", "User not found")
		c.Redirect(http.StatusFound, "/")
		return
	}

	myIssueCount, err := r.issues.CountByReporter(ctx, email)
	if err != nil {
		myIssueCount = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"user":              user,
		"issues":            issues,
		"maintenance_users": maintenanceUsers,
		"my_issue_count":    myIssueCount,
	})
}

// ListJSON is the public JSON API over the whole issue collection.
func (r *ReportController) ListJSON(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := r.issues.ListAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"issues": issues})
}

// GetJSON returns a single issue. A malformed id is a 400, a well-formed id
// with no document behind it a 404.
func (r *ReportController) GetJSON(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issue, err := r.issues.GetByID(ctx, c.Param("issue_id"))
	if err != nil {
		if apperr.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"issue": issue})
}

// UserIssuesJSON returns every issue filed by the given reporter address.
func (r *ReportController) UserIssuesJSON(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issues, err := r.issues.ListByReporter(ctx, c.Param("email"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"issues": issues})
}

// TestEmail lets an admin verify SMTP settings end to end.
func (r *ReportController) TestEmail(c *gin.Context) {
	if err := r.mail.Send(currentEmail(c), "CityFix SMTP Test",
		"If you're reading this, SMTP is working!"); err != nil {
		log.Println("Test email failed:", err)
	}
	c.Status(http.StatusOK)
}
