package services

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/recruitdesk/apiserver/internal/notify"
	"github.com/recruitdesk/apiserver/internal/storage"
	"github.com/recruitdesk/apiserver/internal/store"
	"github.com/recruitdesk/apiserver/types"
)

type idSeq struct {
	mu sync.Mutex
	n  int
}

func (s *idSeq) next(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return prefix + "-" + strconv.Itoa(s.n)
}

type fakeUsers struct {
	ids   idSeq
	users map[string]types.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]types.User{}}
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (types.User, error) {
	u, ok := f.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (types.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUsers) List(ctx context.Context) ([]types.UserSummary, error) {
	out := make([]types.UserSummary, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, types.UserSummary{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role})
	}
	return out, nil
}

func (f *fakeUsers) Create(ctx context.Context, user types.User) (types.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, user.Email) {
			return types.User{}, store.ErrConflict
		}
	}
	user.ID = f.ids.next("user")
	if user.Role == "" {
		user.Role = types.RoleUser
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUsers) UpdateProfile(ctx context.Context, id, name string, profile types.Profile) (types.User, error) {
	u, ok := f.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	u.Name = name
	u.Profile = profile
	f.users[id] = u
	return u, nil
}

func (f *fakeUsers) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.PasswordHash = passwordHash
	f.users[id] = u
	return nil
}

func (f *fakeUsers) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.ResetPasswordToken = token
	u.ResetPasswordExpires = &expires
	f.users[id] = u
	return nil
}

func (f *fakeUsers) Delete(ctx context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

// ownedRows is an owner-scoped in-memory table shared by the resource fakes.
type ownedRows[T any] struct {
	ids    idSeq
	prefix string
	rows   map[string]T
	owner  func(T) string
	setID  func(*T, string)
}

func newOwnedRows[T any](prefix string, owner func(T) string, setID func(*T, string)) *ownedRows[T] {
	return &ownedRows[T]{prefix: prefix, rows: map[string]T{}, owner: owner, setID: setID}
}

func (o *ownedRows[T]) List(ctx context.Context, userID string) ([]T, error) {
	out := make([]T, 0)
	for _, row := range o.rows {
		if o.owner(row) == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (o *ownedRows[T]) Get(ctx context.Context, userID, id string) (T, error) {
	row, ok := o.rows[id]
	if !ok || o.owner(row) != userID {
		var zero T
		return zero, store.ErrNotFound
	}
	return row, nil
}

func (o *ownedRows[T]) Create(ctx context.Context, row T) (T, error) {
	id := o.ids.next(o.prefix)
	o.setID(&row, id)
	o.rows[id] = row
	return row, nil
}

func (o *ownedRows[T]) Delete(ctx context.Context, userID, id string) error {
	if _, err := o.Get(ctx, userID, id); err != nil {
		return err
	}
	delete(o.rows, id)
	return nil
}

func (o *ownedRows[T]) update(userID, id string, row T) (T, error) {
	current, ok := o.rows[id]
	if !ok || o.owner(current) != userID {
		var zero T
		return zero, store.ErrNotFound
	}
	o.rows[id] = row
	return row, nil
}

type fakeJobs struct{ *ownedRows[types.Job] }

func newFakeJobs() *fakeJobs {
	return &fakeJobs{newOwnedRows("job",
		func(j types.Job) string { return j.UserID },
		func(j *types.Job, id string) { j.ID = id })}
}

func (f *fakeJobs) Update(ctx context.Context, job types.Job) (types.Job, error) {
	return f.update(job.UserID, job.ID, job)
}

type fakeCandidates struct{ *ownedRows[types.Candidate] }

func newFakeCandidates() *fakeCandidates {
	return &fakeCandidates{newOwnedRows("cand",
		func(c types.Candidate) string { return c.UserID },
		func(c *types.Candidate, id string) { c.ID = id })}
}

func (f *fakeCandidates) Update(ctx context.Context, c types.Candidate) (types.Candidate, error) {
	return f.update(c.UserID, c.ID, c)
}

type fakeInterviews struct{ *ownedRows[types.Interview] }

func newFakeInterviews() *fakeInterviews {
	return &fakeInterviews{newOwnedRows("int",
		func(i types.Interview) string { return i.UserID },
		func(i *types.Interview, id string) { i.ID = id })}
}

func (f *fakeInterviews) Update(ctx context.Context, i types.Interview) (types.Interview, error) {
	return f.update(i.UserID, i.ID, i)
}

type fakeOffers struct{ *ownedRows[types.OfferLetter] }

func newFakeOffers() *fakeOffers {
	return &fakeOffers{newOwnedRows("offer",
		func(o types.OfferLetter) string { return o.UserID },
		func(o *types.OfferLetter, id string) { o.ID = id })}
}

func (f *fakeOffers) Update(ctx context.Context, o types.OfferLetter) (types.OfferLetter, error) {
	return f.update(o.UserID, o.ID, o)
}

func (f *fakeOffers) UpdateStatus(ctx context.Context, userID, id, status string) error {
	row, err := f.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	row.Status = status
	f.rows[id] = row
	return nil
}

type fakeMailer struct {
	sent []notify.Message
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, msg notify.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeArchive struct {
	objects  map[string][]byte
	metadata map[string]string
	deleted  []string
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{objects: map[string][]byte{}}
}

func (a *fakeArchive) Put(ctx context.Context, obj storage.Object) error {
	a.objects[obj.Key] = obj.Body
	a.metadata = obj.Metadata
	return nil
}

func (a *fakeArchive) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := a.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (a *fakeArchive) Delete(ctx context.Context, key string) error {
	a.deleted = append(a.deleted, key)
	delete(a.objects, key)
	return nil
}
