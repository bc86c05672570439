package service

import (
	"context"
	"fmt"

	"github.com/fixmycity/civic-api/internal/core/domain"
	"github.com/fixmycity/civic-api/internal/core/ports"
)

// In-memory stand-ins for the Mongo repositories, the Redis role cache and
// the checkout provider. They clone on read so service-side mutation of a
// fetched aggregate never aliases the stored record.

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func cloneIssue(i *domain.Issue) *domain.Issue {
	if i == nil {
		return nil
	}
	clone := *i
	clone.Upvotes = append([]string(nil), i.Upvotes...)
	clone.Timeline = append([]domain.TimelineEntry(nil), i.Timeline...)
	if i.StaffAssigned != nil {
		staff := *i.StaffAssigned
		clone.StaffAssigned = &staff
	}
	return &clone
}

// --- stubUserRepo ---

type stubUserRepo struct {
	users   map[string]*domain.User
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.users[user.Email] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Upsert(_ context.Context, user *domain.User) (*domain.User, error) {
	if existing, ok := r.users[user.Email]; ok {
		existing.Name = user.Name
		existing.PhotoURL = user.PhotoURL
		return cloneUser(existing), nil
	}
	r.users[user.Email] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, email string, update ports.ProfileUpdate) error {
	u, ok := r.users[email]
	if !ok {
		return domain.ErrUserNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.PhotoURL != nil {
		u.PhotoURL = *update.PhotoURL
	}
	if update.Phone != nil {
		u.Phone = *update.Phone
	}
	return nil
}

func (r *stubUserRepo) SetBlocked(_ context.Context, email string, blocked bool) error {
	u, ok := r.users[email]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsBlocked = blocked
	return nil
}

func (r *stubUserRepo) SetPremium(_ context.Context, email string) error {
	u, ok := r.users[email]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsPremium = true
	return nil
}

func (r *stubUserRepo) IncrementIssuesReported(_ context.Context, email string, delta int) error {
	u, ok := r.users[email]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IssuesReported += delta
	return nil
}

func (r *stubUserRepo) List(_ context.Context, role domain.Role) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if role == "" || u.Role == role {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) DeleteStaff(_ context.Context, email string) error {
	u, ok := r.users[email]
	if !ok || u.Role != domain.RoleStaff {
		return domain.ErrUserNotFound
	}
	delete(r.users, email)
	return nil
}

// --- stubIssueRepo ---

type stubIssueRepo struct {
	issues map[string]*domain.Issue
	seq    int
}

func newStubIssueRepo() *stubIssueRepo {
	return &stubIssueRepo{issues: make(map[string]*domain.Issue)}
}

func (r *stubIssueRepo) Create(_ context.Context, issue *domain.Issue) (*domain.Issue, error) {
	r.seq++
	issue.ID = fmt.Sprintf("issue-%d", r.seq)
	r.issues[issue.ID] = cloneIssue(issue)
	return cloneIssue(issue), nil
}

func (r *stubIssueRepo) FindByID(_ context.Context, id string) (*domain.Issue, error) {
	i, ok := r.issues[id]
	if !ok {
		return nil, domain.ErrIssueNotFound
	}
	return cloneIssue(i), nil
}

func (r *stubIssueRepo) List(_ context.Context, filter ports.IssueFilter) ([]*domain.Issue, int64, error) {
	var out []*domain.Issue
	for _, i := range r.issues {
		if filter.Status != "" && string(i.Status) != filter.Status {
			continue
		}
		if filter.Category != "" && string(i.Category) != filter.Category {
			continue
		}
		out = append(out, cloneIssue(i))
	}
	return out, int64(len(out)), nil
}

func (r *stubIssueRepo) ListByReporter(_ context.Context, email string) ([]*domain.Issue, error) {
	var out []*domain.Issue
	for _, i := range r.issues {
		if i.ReporterEmail == email {
			out = append(out, cloneIssue(i))
		}
	}
	return out, nil
}

func (r *stubIssueRepo) ListByAssignee(_ context.Context, email string) ([]*domain.Issue, error) {
	var out []*domain.Issue
	for _, i := range r.issues {
		if i.StaffAssigned != nil && i.StaffAssigned.Email == email {
			out = append(out, cloneIssue(i))
		}
	}
	return out, nil
}

func (r *stubIssueRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.issues[id]; !ok {
		return domain.ErrIssueNotFound
	}
	delete(r.issues, id)
	return nil
}

func (r *stubIssueRepo) UpdateFields(_ context.Context, id string, edit ports.IssueEdit) error {
	i, ok := r.issues[id]
	if !ok {
		return domain.ErrIssueNotFound
	}
	i.Title = edit.Title
	i.Description = edit.Description
	i.Category = edit.Category
	i.Location = edit.Location
	return nil
}

func (r *stubIssueRepo) SetStatus(_ context.Context, id string, status domain.Status, entry domain.TimelineEntry) error {
	i, ok := r.issues[id]
	if !ok {
		return domain.ErrIssueNotFound
	}
	i.Status = status
	i.Timeline = append(i.Timeline, entry)
	return nil
}

func (r *stubIssueRepo) AssignStaff(_ context.Context, id string, staff domain.StaffRef, status domain.Status, entry domain.TimelineEntry) error {
	i, ok := r.issues[id]
	if !ok {
		return domain.ErrIssueNotFound
	}
	i.Status = status
	i.StaffAssigned = &staff
	i.Timeline = append(i.Timeline, entry)
	return nil
}

func (r *stubIssueRepo) SetPriority(_ context.Context, id string, priority domain.Priority, entry domain.TimelineEntry) error {
	i, ok := r.issues[id]
	if !ok {
		return domain.ErrIssueNotFound
	}
	i.Priority = priority
	i.Timeline = append(i.Timeline, entry)
	return nil
}

func (r *stubIssueRepo) AddUpvote(_ context.Context, id string, email string) (bool, error) {
	i, ok := r.issues[id]
	if !ok {
		return false, domain.ErrIssueNotFound
	}
	for _, e := range i.Upvotes {
		if e == email {
			return false, nil
		}
	}
	i.Upvotes = append(i.Upvotes, email)
	return true, nil
}

func (r *stubIssueRepo) CountByStatus(_ context.Context, reporterEmail string) ([]ports.StatusCount, error) {
	counts := make(map[string]int64)
	for _, i := range r.issues {
		if reporterEmail != "" && i.ReporterEmail != reporterEmail {
			continue
		}
		counts[string(i.Status)]++
	}
	var out []ports.StatusCount
	for status, n := range counts {
		out = append(out, ports.StatusCount{Status: status, Count: n})
	}
	return out, nil
}

func (r *stubIssueRepo) CountByCategory(_ context.Context) ([]ports.CategoryCount, error) {
	counts := make(map[string]int64)
	for _, i := range r.issues {
		counts[string(i.Category)]++
	}
	var out []ports.CategoryCount
	for category, n := range counts {
		out = append(out, ports.CategoryCount{Category: category, Count: n})
	}
	return out, nil
}

func (r *stubIssueRepo) CountAssignedByStatus(_ context.Context, staffEmail string) ([]ports.StatusCount, error) {
	counts := make(map[string]int64)
	for _, i := range r.issues {
		if i.StaffAssigned == nil || i.StaffAssigned.Email != staffEmail {
			continue
		}
		counts[string(i.Status)]++
	}
	var out []ports.StatusCount
	for status, n := range counts {
		out = append(out, ports.StatusCount{Status: status, Count: n})
	}
	return out, nil
}

// --- stubPaymentRepo ---

type stubPaymentRepo struct {
	payments  map[string]*domain.Payment
	seq       int
	createErr error
	findErr   error
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{payments: make(map[string]*domain.Payment)}
}

func (r *stubPaymentRepo) Create(_ context.Context, payment *domain.Payment) (*domain.Payment, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if existing, ok := r.payments[payment.TransactionID]; ok {
		clone := *existing
		return &clone, nil
	}
	r.seq++
	payment.ID = fmt.Sprintf("pay-%d", r.seq)
	clone := *payment
	r.payments[payment.TransactionID] = &clone
	return payment, nil
}

func (r *stubPaymentRepo) FindByTransactionID(_ context.Context, transactionID string) (*domain.Payment, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.payments[transactionID]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPaymentRepo) ListByUser(_ context.Context, email string) ([]*domain.Payment, error) {
	var out []*domain.Payment
	for _, p := range r.payments {
		if p.UserEmail == email {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

// --- stubRoleCache ---

type stubRoleCache struct {
	roles  map[string]domain.Role
	getErr error
	setErr error
	hits   int
}

func newStubRoleCache() *stubRoleCache {
	return &stubRoleCache{roles: make(map[string]domain.Role)}
}

func (c *stubRoleCache) Get(_ context.Context, email string) (domain.Role, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	role, ok := c.roles[email]
	if ok {
		c.hits++
	}
	return role, ok, nil
}

func (c *stubRoleCache) Set(_ context.Context, email string, role domain.Role) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.roles[email] = role
	return nil
}

// --- stubProvider ---

type stubProvider struct {
	session    *ports.ProviderSession
	sessionErr error

	verification *ports.ProviderVerification
	verifyErr    error

	lastRequest ports.ProviderSessionRequest
}

func (p *stubProvider) CreateSession(_ context.Context, req ports.ProviderSessionRequest) (*ports.ProviderSession, error) {
	p.lastRequest = req
	if p.sessionErr != nil {
		return nil, p.sessionErr
	}
	return p.session, nil
}

func (p *stubProvider) VerifySession(_ context.Context, _ string) (*ports.ProviderVerification, error) {
	if p.verifyErr != nil {
		return nil, p.verifyErr
	}
	return p.verification, nil
}
