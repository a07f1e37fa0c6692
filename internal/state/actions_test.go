package state

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/duynhne/account-service/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeService struct {
	users     map[string]domain.User
	updateErr error
	gets      int
}

func (f *fakeService) GetProfile(_ context.Context, userID string) (*domain.User, error) {
	f.gets++
	u, ok := f.users[userID]
	if !ok {
		return nil, fmt.Errorf("get: %w", domain.ErrUserNotFound)
	}
	return &u, nil
}

func (f *fakeService) UpdateProfile(_ context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, fmt.Errorf("update: %w", domain.ErrUserNotFound)
	}
	u.Username, u.Email, u.FirstName, u.LastName = update.Username, update.Email, update.FirstName, update.LastName
	f.users[userID] = u
	return &u, nil
}

func newTestActions(t *testing.T, svc *fakeService) *Actions {
	return NewActions(NewStore(), svc, zaptest.NewLogger(t))
}

func TestLoadProfileRefreshesStoreOnEveryCall(t *testing.T) {
	svc := &fakeService{users: map[string]domain.User{"1": {ID: "1", Username: "alice"}}}
	a := newTestActions(t, svc)
	var seen []string
	a.Store().Subscribe("1", func(u domain.User) { seen = append(seen, u.Username) })

	u, err := a.LoadProfile(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	// written behind the store's back
	svc.users["1"] = domain.User{ID: "1", Username: "bob"}

	u, err = a.LoadProfile(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)

	e, _ := a.Store().Get("1")
	assert.Equal(t, "bob", e.User.Username)
	assert.Equal(t, []string{"alice", "bob"}, seen)
	assert.Equal(t, 2, svc.gets)
}

func TestLoadProfileMissing(t *testing.T) {
	a := newTestActions(t, &fakeService{users: map[string]domain.User{}})

	_, err := a.LoadProfile(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateProfileSuccessNotifiesSubscribers(t *testing.T) {
	svc := &fakeService{users: map[string]domain.User{"1": {ID: "1", Username: "alice"}}}
	a := newTestActions(t, svc)
	var seen []domain.User
	a.Store().Subscribe("1", func(u domain.User) { seen = append(seen, u) })
	before := testutil.ToFloat64(profileUpdates.WithLabelValues("success"))

	user, err := a.UpdateProfile(context.Background(), "1", domain.ProfileUpdate{Username: "bob"})
	require.NoError(t, err)

	assert.Equal(t, "bob", user.Username)
	require.Len(t, seen, 1)
	assert.Equal(t, "bob", seen[0].Username)
	assert.Nil(t, a.Store().TakeNotice("1"))
	assert.Equal(t, before+1, testutil.ToFloat64(profileUpdates.WithLabelValues("success")))
}

func TestUpdateProfileFailureKeepsStore(t *testing.T) {
	svc := &fakeService{users: map[string]domain.User{"1": {ID: "1", Username: "alice"}}, updateErr: errors.New("db down")}
	a := newTestActions(t, svc)
	_, err := a.LoadProfile(context.Background(), "1")
	require.NoError(t, err)
	notified := false
	a.Store().Subscribe("1", func(domain.User) { notified = true })
	before := testutil.ToFloat64(profileUpdates.WithLabelValues("error"))

	_, err = a.UpdateProfile(context.Background(), "1", domain.ProfileUpdate{Username: "bob"})
	require.Error(t, err)

	assert.False(t, notified)
	e, _ := a.Store().Get("1")
	assert.Equal(t, "alice", e.User.Username)
	assert.Nil(t, a.Store().TakeNotice("1"))
	assert.Equal(t, before+1, testutil.ToFloat64(profileUpdates.WithLabelValues("error")))
}

func TestNoticeFor(t *testing.T) {
	assert.Equal(t, Notice{Kind: NoticeSuccess, Message: msgProfileUpdated}, NoticeFor(nil))
	assert.Equal(t, Notice{Kind: NoticeError, Message: msgAccountNotFound}, NoticeFor(fmt.Errorf("update: %w", domain.ErrUserNotFound)))
	assert.Equal(t, Notice{Kind: NoticeError, Message: msgUpdateFailed}, NoticeFor(errors.New("db down")))
}
