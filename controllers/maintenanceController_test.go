package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cityfix-be/models"
)

func TestUpdateStatusByAssignee(t *testing.T) {
	env := newTestEnv(t)
	tech := env.addUser(t, "Mo", "mo@example.com", "secret123", models.RoleMaintenance)
	issue := env.addIssue(t, "alice@example.com", models.StatusAssigned, tech.Email)
	token := env.token(t, tech.Email, tech.Role)

	rr := env.postForm(t, "/maintenance/update_status/"+issue.ID.Hex(), token,
		url.Values{"status": {"in progress"}})
	assert.Equal(t, http.StatusFound, rr.Code)
	level, message := flashOf(t, rr)
	assert.Equal(t, "success", level)
	assert.Equal(t, "Status updated!", message)

	updated, err := env.issues.GetByID(context.Background(), issue.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.Status)

	rr = env.postForm(t, "/maintenance/update_status/"+issue.ID.Hex(), token,
		url.Values{"status": {"resolved"}})
	assert.Equal(t, http.StatusFound, rr.Code)

	updated, err = env.issues.GetByID(context.Background(), issue.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, updated.Status)
}

func TestUpdateStatusIgnoresUnknownValue(t *testing.T) {
	env := newTestEnv(t)
	tech := env.addUser(t, "Mo", "mo@example.com", "secret123", models.RoleMaintenance)
	issue := env.addIssue(t, "alice@example.com", models.StatusAssigned, tech.Email)

	rr := env.postForm(t, "/maintenance/update_status/"+issue.ID.Hex(),
		env.token(t, tech.Email, tech.Role), url.Values{"status": {"done"}})

	assert.Equal(t, http.StatusFound, rr.Code)
	level, _ := flashOf(t, rr)
	assert.NotEqual(t, "success", level)

	unchanged, err := env.issues.GetByID(context.Background(), issue.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, unchanged.Status)
}

func TestUpdateStatusDeniedForNonAssignee(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "Mo", "mo@example.com", "secret123", models.RoleMaintenance)
	other := env.addUser(t, "Dana", "dana@example.com", "secret123", models.RoleMaintenance)
	issue := env.addIssue(t, "alice@example.com", models.StatusAssigned, "mo@example.com")

	rr := env.postForm(t, "/maintenance/update_status/"+issue.ID.Hex(),
		env.token(t, other.Email, other.Role), url.Values{"status": {"resolved"}})

	assert.Equal(t, http.StatusFound, rr.Code)
	level, message := flashOf(t, rr)
	assert.Equal(t, "danger", level)
	assert.Equal(t, "Access denied.", message)

	unchanged, err := env.issues.GetByID(context.Background(), issue.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, unchanged.Status)
}

func TestCompleteRecordsReportWithoutTouchingStatus(t *testing.T) {
	env := newTestEnv(t)
	tech := env.addUser(t, "Mo", "mo@example.com", "secret123", models.RoleMaintenance)
	issue := env.addIssue(t, "alice@example.com", models.StatusInProgress, tech.Email)

	rr := env.postMultipart(t, "/maintenance/complete_issue/"+issue.ID.Hex(),
		env.token(t, tech.Email, tech.Role),
		map[string]string{"completion_description": "Replaced the lamp"},
		map[string][]byte{
			"before_image": []byte("before"),
			"after_image":  []byte("after"),
		})

	assert.Equal(t, http.StatusFound, rr.Code)
	level, message := flashOf(t, rr)
	assert.Equal(t, "success", level)
	assert.Equal(t, "Work completion report submitted!", message)

	report, err := env.dones.FindByIssue(context.Background(), issue.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Replaced the lamp", report.CompletionDescription)
	assert.Equal(t, tech.Email, report.Technician)
	assert.False(t, report.Accepted())
	require.NotNil(t, report.BeforeFileID)
	require.NotNil(t, report.AfterFileID)

	before, err := env.blobs.Open(context.Background(), report.BeforeFileID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []byte("before"), before.Data)

	unchanged, err := env.issues.GetByID(context.Background(), issue.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, unchanged.Status)
}

func TestCompleteForbiddenForNonAssignee(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "Mo", "mo@example.com", "secret123", models.RoleMaintenance)
	other := env.addUser(t, "Dana", "dana@example.com", "secret123", models.RoleMaintenance)
	issue := env.addIssue(t, "alice@example.com", models.StatusInProgress, "mo@example.com")

	rr := env.postMultipart(t, "/maintenance/complete_issue/"+issue.ID.Hex(),
		env.token(t, other.Email, other.Role),
		map[string]string{"completion_description": "Not my job"}, nil)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "not assigned")

	_, err := env.dones.FindByIssue(context.Background(), issue.ID.Hex())
	assert.Error(t, err)
}

type dashboardIssue struct {
	models.Issue
	Awaiting        bool   `json:"awaiting"`
	RejectionReason string `json:"rejection_reason"`
}

func TestMaintenanceDashboardReviewStates(t *testing.T) {
	env := newTestEnv(t)
	tech := env.addUser(t, "Mo", "mo@example.com", "secret123", models.RoleMaintenance)

	open := env.addIssue(t, "a@example.com", models.StatusAssigned, tech.Email)
	awaiting := env.addIssue(t, "b@example.com", models.StatusResolved, tech.Email)
	finished := env.addIssue(t, "c@example.com", models.StatusDone, tech.Email)
	rejected := env.addIssue(t, "d@example.com", models.StatusInProgress, tech.Email)

	report := models.DoneReport{OriginalIssueID: awaiting.ID.Hex(), Technician: tech.Email, Timestamp: time.Now().UTC()}
	require.NoError(t, env.dones.Create(context.Background(), &report))

	accepted := models.DoneReport{
		OriginalIssueID: finished.ID.Hex(),
		Technician:      tech.Email,
		Status:          models.DoneReportAccepted,
		Timestamp:       time.Now().UTC(),
	}
	require.NoError(t, env.dones.Create(context.Background(), &accepted))

	require.NoError(t, env.rejects.Append(context.Background(), &models.RejectedReport{
		OriginalIssueID: rejected.ID.Hex(),
		Technician:      tech.Email,
		RejectionReason: "bad work",
		Admin:           "admin@example.com",
		Timestamp:       time.Now().UTC(),
	}))

	rr := env.get(t, "/maintenance/dashboard", env.token(t, tech.Email, tech.Role))
	require.Equal(t, http.StatusOK, rr.Code)

	var payload struct {
		Issues        []dashboardIssue `json:"issues"`
		RejectedCount int              `json:"rejected_count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))

	byID := map[string]dashboardIssue{}
	for _, item := range payload.Issues {
		byID[item.ID.Hex()] = item
	}

	assert.NotContains(t, byID, finished.ID.Hex())
	assert.False(t, byID[open.ID.Hex()].Awaiting)
	assert.True(t, byID[awaiting.ID.Hex()].Awaiting)
	assert.Equal(t, "bad work", byID[rejected.ID.Hex()].RejectionReason)
	assert.Equal(t, 1, payload.RejectedCount)
}

func TestRejectedReportsSkipsDoneIssues(t *testing.T) {
	env := newTestEnv(t)
	tech := env.addUser(t, "Mo", "mo@example.com", "secret123", models.RoleMaintenance)

	reopened := env.addIssue(t, "a@example.com", models.StatusInProgress, tech.Email)
	closed := env.addIssue(t, "b@example.com", models.StatusDone, tech.Email)

	for _, issue := range []models.Issue{reopened, closed} {
		require.NoError(t, env.rejects.Append(context.Background(), &models.RejectedReport{
			OriginalIssueID: issue.ID.Hex(),
			Technician:      tech.Email,
			RejectionReason: "redo",
			Admin:           "admin@example.com",
			Timestamp:       time.Now().UTC(),
		}))
	}

	rr := env.get(t, "/maintenance/rejected_reports", env.token(t, tech.Email, tech.Role))
	require.Equal(t, http.StatusOK, rr.Code)

	var payload struct {
		Reports []models.RejectedReport `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.Len(t, payload.Reports, 1)
	assert.Equal(t, reopened.ID.Hex(), payload.Reports[0].OriginalIssueID)
}

func TestMaintenanceRoutesRequireMaintenanceRole(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, "Alice", "alice@example.com", "secret123", models.RoleUser)

	rr := env.get(t, "/maintenance/dashboard", env.token(t, alice.Email, alice.Role))
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
	level, message := flashOf(t, rr)
	assert.Equal(t, "danger", level)
	assert.Equal(t, "Access denied.", message)
}
