package store

import (
	"context"
	"io"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cityfix-be/apperr"
	"cityfix-be/models"
)

// In-memory implementations of the store interfaces for tests. They mirror
// the Mongo implementations' error behavior, including the malformed-id /
// missing-document distinction.

type FakeUserStore struct {
	mu      sync.RWMutex
	users   map[string]models.User // keyed by email
	PingErr error
}

func NewFakeUserStore() *FakeUserStore {
	return &FakeUserStore{users: make(map[string]models.User)}
}

func (s *FakeUserStore) Ping(context.Context) error { return s.PingErr }

func (s *FakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Email]; exists {
		return apperr.E(apperr.Validation, "email already registered")
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.Email] = *user
	return nil
}

func (s *FakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[email]
	if !ok {
		return nil, apperr.E(apperr.NotFound, "user not found")
	}
	return &user, nil
}

func (s *FakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	if _, err := parseID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.ID.Hex() == id {
			u := user
			return &u, nil
		}
	}
	return nil, apperr.E(apperr.NotFound, "user not found")
}

func (s *FakeUserStore) ListByRole(_ context.Context, role models.Role) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := []models.User{}
	for _, user := range s.users {
		if user.Role == role {
			users = append(users, user)
		}
	}
	return users, nil
}

func (s *FakeUserStore) ListNonAdmin(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := []models.User{}
	for _, user := range s.users {
		if user.Role != models.RoleAdmin {
			users = append(users, user)
		}
	}
	return users, nil
}

func (s *FakeUserStore) Update(_ context.Context, id string, upd UserUpdate) error {
	if _, err := parseID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, user := range s.users {
		if user.ID.Hex() != id {
			continue
		}
		if upd.Name != nil {
			user.Name = *upd.Name
		}
		if upd.Password != nil {
			user.Password = *upd.Password
		}
		if upd.Role != nil {
			user.Role = models.Role(*upd.Role)
		}
		s.users[email] = user
		return nil
	}
	return apperr.E(apperr.NotFound, "user not found")
}

func (s *FakeUserStore) DeleteByID(_ context.Context, id string) (bool, error) {
	if _, err := parseID(id); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, user := range s.users {
		if user.ID.Hex() == id {
			delete(s.users, email)
			return true, nil
		}
	}
	return false, nil
}

func (s *FakeUserStore) DeleteByEmail(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, email)
	return nil
}

type FakeIssueStore struct {
	mu     sync.RWMutex
	issues map[string]models.Issue // keyed by hex id
}

func NewFakeIssueStore() *FakeIssueStore {
	return &FakeIssueStore{issues: make(map[string]models.Issue)}
}

func (s *FakeIssueStore) Create(_ context.Context, issue *models.Issue) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	s.issues[issue.ID.Hex()] = *issue
	return issue.ID, nil
}

func (s *FakeIssueStore) GetByID(_ context.Context, id string) (*models.Issue, error) {
	if _, err := parseID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	issue, ok := s.issues[id]
	if !ok {
		return nil, apperr.E(apperr.NotFound, "issue not found")
	}
	return &issue, nil
}

func (s *FakeIssueStore) ListAll(_ context.Context) ([]models.Issue, error) {
	return s.list(func(models.Issue) bool { return true }), nil
}

func (s *FakeIssueStore) ListByReporter(_ context.Context, email string) ([]models.Issue, error) {
	return s.list(func(i models.Issue) bool { return i.ReporterEmail == email }), nil
}

func (s *FakeIssueStore) ListByAssignee(_ context.Context, email string) ([]models.Issue, error) {
	return s.list(func(i models.Issue) bool { return i.AssignedTo != nil && *i.AssignedTo == email }), nil
}

func (s *FakeIssueStore) list(keep func(models.Issue) bool) []models.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	issues := []models.Issue{}
	for _, issue := range s.issues {
		if keep(issue) {
			issues = append(issues, issue)
		}
	}
	sort.Slice(issues, func(i, j int) bool {
		return issues[i].Timestamp.After(issues[j].Timestamp)
	})
	return issues
}

func (s *FakeIssueStore) CountByReporter(_ context.Context, email string) (int64, error) {
	return int64(len(s.list(func(i models.Issue) bool { return i.ReporterEmail == email }))), nil
}

func (s *FakeIssueStore) UpdateAssignment(_ context.Context, id, maintenanceEmail string) error {
	if _, err := parseID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	issue, ok := s.issues[id]
	if !ok {
		return apperr.E(apperr.NotFound, "issue not found")
	}
	if maintenanceEmail == "" {
		issue.AssignedTo = nil
		issue.MaintenanceEmail = nil
		issue.Status = models.StatusUnassigned
	} else {
		email := maintenanceEmail
		issue.AssignedTo = &email
		issue.MaintenanceEmail = &email
		issue.Status = models.StatusAssigned
	}
	s.issues[id] = issue
	return nil
}

func (s *FakeIssueStore) SetStatus(_ context.Context, id string, status models.IssueStatus) error {
	if _, err := parseID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	issue, ok := s.issues[id]
	if !ok {
		return apperr.E(apperr.NotFound, "issue not found")
	}
	issue.Status = status
	s.issues[id] = issue
	return nil
}

func (s *FakeIssueStore) Delete(_ context.Context, id string) error {
	if _, err := parseID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.issues[id]; !ok {
		return apperr.E(apperr.NotFound, "issue not found")
	}
	delete(s.issues, id)
	return nil
}

type FakeDoneReportStore struct {
	mu      sync.RWMutex
	reports map[string]models.DoneReport
	issues  *FakeIssueStore
}

func NewFakeDoneReportStore(issues *FakeIssueStore) *FakeDoneReportStore {
	return &FakeDoneReportStore{reports: make(map[string]models.DoneReport), issues: issues}
}

func (s *FakeDoneReportStore) Create(ctx context.Context, report *models.DoneReport) error {
	if _, err := s.issues.GetByID(ctx, report.OriginalIssueID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	s.reports[report.ID.Hex()] = *report
	return nil
}

func (s *FakeDoneReportStore) GetByID(_ context.Context, id string) (*models.DoneReport, error) {
	if _, err := parseID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[id]
	if !ok {
		return nil, apperr.E(apperr.NotFound, "done report not found")
	}
	return &report, nil
}

func (s *FakeDoneReportStore) FindByIssue(_ context.Context, issueID string) (*models.DoneReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, report := range s.reports {
		if report.OriginalIssueID == issueID {
			r := report
			return &r, nil
		}
	}
	return nil, apperr.E(apperr.NotFound, "done report not found")
}

func (s *FakeDoneReportStore) ListAll(_ context.Context) ([]models.DoneReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reports := []models.DoneReport{}
	for _, report := range s.reports {
		reports = append(reports, report)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Timestamp.After(reports[j].Timestamp)
	})
	return reports, nil
}

func (s *FakeDoneReportStore) MarkAccepted(_ context.Context, id string) error {
	if _, err := parseID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.reports[id]
	if !ok {
		return apperr.E(apperr.NotFound, "done report not found")
	}
	report.Status = models.DoneReportAccepted
	s.reports[id] = report
	return nil
}

func (s *FakeDoneReportStore) Delete(_ context.Context, id string) error {
	if _, err := parseID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		return apperr.E(apperr.NotFound, "done report not found")
	}
	delete(s.reports, id)
	return nil
}

type FakeRejectionStore struct {
	mu      sync.RWMutex
	entries []models.RejectedReport
}

func NewFakeRejectionStore() *FakeRejectionStore { return &FakeRejectionStore{} }

func (s *FakeRejectionStore) Append(_ context.Context, entry *models.RejectedReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *FakeRejectionStore) ListByTechnician(_ context.Context, email string) ([]models.RejectedReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := []models.RejectedReport{}
	for _, entry := range s.entries {
		if entry.Technician == email {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// All returns every rejection entry regardless of technician.
func (s *FakeRejectionStore) All() []models.RejectedReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.RejectedReport{}, s.entries...)
}

type FakeBlobStore struct {
	mu    sync.RWMutex
	blobs map[string]Blob
}

func NewFakeBlobStore() *FakeBlobStore {
	return &FakeBlobStore{blobs: make(map[string]Blob)}
}

func (s *FakeBlobStore) Put(_ context.Context, filename, contentType string, src io.Reader) (primitive.ObjectID, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id := primitive.NewObjectID()
	s.mu.Lock()
	s.blobs[id.Hex()] = Blob{Filename: filename, ContentType: contentType, Data: data}
	s.mu.Unlock()
	return id, nil
}

func (s *FakeBlobStore) Open(_ context.Context, id string) (*Blob, error) {
	if _, err := parseID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[id]
	if !ok {
		return nil, apperr.E(apperr.NotFound, "file not found")
	}
	return &blob, nil
}
