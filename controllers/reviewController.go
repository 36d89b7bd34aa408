package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cityfix-be/mailer"
	"cityfix-be/models"
	"cityfix-be/store"
	"cityfix-be/utils"
)

// ReviewController handles the admin side of the completion workflow:
// inspecting submitted reports and accepting or rejecting them.
type ReviewController struct {
	dones   store.DoneReportStore
	issues  store.IssueStore
	rejects store.RejectionStore
	users   store.UserStore
	mail    mailer.Mailer
	baseURL string
}

func NewReviewController(dones store.DoneReportStore, issues store.IssueStore, rejects store.RejectionStore, users store.UserStore, mail mailer.Mailer, baseURL string) *ReviewController {
	return &ReviewController{dones: dones, issues: issues, rejects: rejects, users: users, mail: mail, baseURL: baseURL}
}

type doneReportView struct {
	models.DoneReport
	DisplayDate string             `json:"display_date"`
	DisplayTime string             `json:"display_time"`
	IssueStatus models.IssueStatus `json:"issue_status"`
}

// DoneReports lists every completion report, newest first, each joined with
// the current status of the issue it references.
func (v *ReviewController) DoneReports(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := v.users.GetByEmail(ctx, currentEmail(c))
	if err != nil {
		utils.SetFlash(c, "danger", "User not found")
		c.Redirect(http.StatusFound, "/")
		return
	}

	reports, err := v.dones.ListAll(ctx)
	if err != nil {
		log.Println("Error listing done reports:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	views := []doneReportView{}
	for _, report := range reports {
		view := doneReportView{
			DoneReport:  report,
			DisplayDate: report.Timestamp.Format("2006-01-02"),
			DisplayTime: report.Timestamp.Format("15:04:05"),
		}
		if issue, err := v.issues.GetByID(ctx, report.OriginalIssueID); err == nil {
			view.IssueStatus = issue.Status
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "done_reports": views})
}

// Review accepts or rejects a completion report.
//
// Accept marks the issue done, keeps the report (flagged accepted) as the
// audit record, and notifies the reporter; the status write stands even if
// the mail bounces. Reject requires a reason, deletes the report, sends the
// issue back to "in progress" and appends to the rejection log.
func (v *ReviewController) Review(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	report, err := v.dones.GetByID(ctx, c.Param("dr_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Done report not found"})
		return
	}

	issue, err := v.issues.GetByID(ctx, report.OriginalIssueID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	switch c.PostForm("status") {
	case "accepted":
		v.accept(ctx, c, report.ID.Hex(), issue)
	case "rejected":
		v.reject(ctx, c, report, issue)
	default:
		utils.SetFlash(c, "danger", "Unknown action.")
	}

	c.Redirect(http.StatusFound, "/admin/done_reports")
}

func (v *ReviewController) accept(ctx context.Context, c *gin.Context, reportID string, issue *models.Issue) {
	issueID := issue.ID.Hex()
	if err := v.issues.SetStatus(ctx, issueID, models.StatusDone); err != nil {
		log.Println("Error marking issue done:", err)
		utils.SetFlash(c, "danger", "Something went wrong")
		return
	}
	if err := v.dones.MarkAccepted(ctx, reportID); err != nil {
		log.Println("Error marking report accepted:", err)
	}

	body := fmt.Sprintf(
		"Hello,\n\nGreat news! Your report #%s was marked done.\n\nView details: %s/report/%s\nThank you!",
		issueID, v.baseURL, issueID)
	if err := v.mail.Send(issue.ReporterEmail, "Your Report Has Been Completed", body); err != nil {
		log.Println("Error emailing reporter:", err)
		utils.SetFlash(c, "warning", "Accepted but notification failed.")
		return
	}
	utils.SetFlash(c, "success", "Report accepted and reporter notified.")
}

func (v *ReviewController) reject(ctx context.Context, c *gin.Context, report *models.DoneReport, issue *models.Issue) {
	reason := strings.TrimSpace(c.PostForm("rejection_reason"))
	if reason == "" {
		utils.SetFlash(c, "danger", "Rejection reason required.")
		return
	}

	if err := v.dones.Delete(ctx, report.ID.Hex()); err != nil {
		log.Println("Error deleting done report:", err)
		utils.SetFlash(c, "danger", "Something went wrong")
		return
	}
	if err := v.issues.SetStatus(ctx, issue.ID.Hex(), models.StatusInProgress); err != nil {
		log.Println("Error reverting issue status:", err)
	}

	entry := models.RejectedReport{
		OriginalIssueID: report.OriginalIssueID,
		Technician:      report.Technician,
		RejectionReason: reason,
		Admin:           currentEmail(c),
		Timestamp:       time.Now().UTC(),
	}
	if err := v.rejects.Append(ctx, &entry); err != nil {
		log.Println("Error appending rejection log:", err)
	}

	utils.SetFlash(c, "warning", "Report rejected and sent back.")
}

// DoneReportsJSON is the JSON API over the completion-report collection.
func (v *ReviewController) DoneReportsJSON(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reports, err := v.dones.ListAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve done reports"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"done_reports": reports})
}
