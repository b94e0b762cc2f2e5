package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// recLogger remembers Error messages.
type recLogger struct {
	nopLogger
	mu     sync.Mutex
	errors []string
}

func (r *recLogger) Error(_ context.Context, msg string, _ ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}
func (r *recLogger) With(...any) logging.Logger { return r }

// fakeAccountsRepo is a map-backed accounts.Repository. Any err* field makes
// the matching method fail.
type fakeAccountsRepo struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*models.Account

	getErr    error
	createErr error
	updateErr error
	listErr   error
}

func newFakeRepo() *fakeAccountsRepo {
	return &fakeAccountsRepo{byID: map[string]*models.Account{}}
}

func (f *fakeAccountsRepo) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, x := range f.byID {
		if x.Email == a.Email {
			return nil, common.ErrEmailTaken
		}
	}
	f.seq++
	c := *a
	c.ID = fmt.Sprintf("id-%d", f.seq)
	c.CreatedAt = time.Unix(int64(f.seq), 0).UTC()
	c.UpdatedAt = c.CreatedAt
	f.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeAccountsRepo) GetByID(_ context.Context, id string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *a
	return &out, nil
}

func (f *fakeAccountsRepo) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, a := range f.byID {
		if a.Email == email {
			out := *a
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccountsRepo) UpdateNames(_ context.Context, id, first, last string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a.FirstName, a.LastName = first, last
	a.UpdatedAt = a.UpdatedAt.Add(time.Second)
	out := *a
	return &out, nil
}

func (f *fakeAccountsRepo) List(_ context.Context) ([]*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.Account
	for _, a := range f.byID {
		c := *a
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// plainHasher stores "hashed:" + password. Tests that care about bcrypt use
// auth.BcryptHasher directly.
type plainHasher struct {
	err       error
	verifyErr error
}

func (h plainHasher) Hash(_ context.Context, p string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + p, nil
}

func (h plainHasher) Verify(_ context.Context, p, hashed string) (bool, error) {
	if h.verifyErr != nil {
		return false, h.verifyErr
	}
	return hashed == "hashed:"+p, nil
}
