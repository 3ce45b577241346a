package persistence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/getauthentic/backend/internal/domain/user"
)

// MemoryUserRepo is an in-memory user.Repository for tests and local
// development without Postgres. Semantics mirror the Postgres repo, including
// the oldest-record-first tie-break on identifier lookup.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]*user.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]*user.User)}
}

func cloneUser(u *user.User) *user.User {
	c := *u
	if u.VerificationToken != nil {
		t := *u.VerificationToken
		c.VerificationToken = &t
	}
	if u.QuizResult != nil {
		qr := *u.QuizResult
		c.QuizResult = &qr
	}
	c.ChatHistory = append([]user.ChatTurn(nil), u.ChatHistory...)
	return &c
}

func (r *MemoryUserRepo) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Email]; ok {
		return user.ErrDuplicate
	}
	r.users[u.Email] = cloneUser(u)
	return nil
}

func (r *MemoryUserRepo) Delete(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[email]; !ok {
		return user.ErrNotFound
	}
	delete(r.users, email)
	return nil
}

func (r *MemoryUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryUserRepo) FindByIdentifier(ctx context.Context, identifier string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]*user.User, 0, 1)
	for _, u := range r.users {
		if u.Email == identifier || u.RestaurantName == identifier {
			matches = append(matches, u)
		}
	}
	if len(matches) == 0 {
		return nil, user.ErrNotFound
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})
	return cloneUser(matches[0]), nil
}

func (r *MemoryUserRepo) FindByStripeCustomerID(ctx context.Context, customerID string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.StripeCustomerID == customerID && customerID != "" {
			return cloneUser(u), nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *MemoryUserRepo) MarkVerified(ctx context.Context, email, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok || u.IsVerified || u.VerificationToken == nil || *u.VerificationToken != token {
		return user.ErrNotFound
	}
	u.IsVerified = true
	u.VerificationToken = nil
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryUserRepo) UpdateProfile(ctx context.Context, email string, upd user.ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return user.ErrNotFound
	}

	if upd.OwnerName != nil {
		u.OwnerName = *upd.OwnerName
	}
	if upd.Location != nil {
		u.Location = *upd.Location
	}
	if upd.BusinessType != nil {
		u.BusinessType = *upd.BusinessType
	}
	if upd.CurrentPosition != nil {
		u.CurrentPosition = *upd.CurrentPosition
	}
	if upd.Phone != nil {
		u.Phone = upd.Phone
	}
	if upd.ContactEmail != nil {
		u.ContactEmail = upd.ContactEmail
	}
	if upd.Website != nil {
		u.Website = upd.Website
	}
	if upd.Description != nil {
		u.Description = upd.Description
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryUserRepo) SetResultImageURL(ctx context.Context, email, url string) error {
	return r.mutate(email, func(u *user.User) { u.ResultImageURL = url })
}

func (r *MemoryUserRepo) SetQuizResult(ctx context.Context, email string, result *user.QuizResult) error {
	return r.mutate(email, func(u *user.User) {
		qr := *result
		u.QuizResult = &qr
	})
}

func (r *MemoryUserRepo) SetStripeCustomerID(ctx context.Context, email, customerID string) error {
	return r.mutate(email, func(u *user.User) { u.StripeCustomerID = customerID })
}

func (r *MemoryUserRepo) SetSubscribedByEmail(ctx context.Context, email string) error {
	return r.mutate(email, func(u *user.User) { u.Subscribed = true })
}

func (r *MemoryUserRepo) SetSubscribedByCustomerID(ctx context.Context, customerID, subscriptionType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.StripeCustomerID == customerID && customerID != "" {
			u.Subscribed = true
			u.SubscriptionType = subscriptionType
			u.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return user.ErrNotFound
}

func (r *MemoryUserRepo) SetChatHistory(ctx context.Context, email string, history []user.ChatTurn) error {
	return r.mutate(email, func(u *user.User) {
		u.ChatHistory = append([]user.ChatTurn(nil), history...)
	})
}

func (r *MemoryUserRepo) mutate(email string, fn func(*user.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return user.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now().UTC()
	return nil
}
