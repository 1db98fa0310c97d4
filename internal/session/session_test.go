package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/grocart/internal/db/sessionfile"
	"github.com/patric-chuzhbe/grocart/internal/models"
)

type logoutRecorder struct {
	calls  int
	failed bool
}

func (r *logoutRecorder) Logout(_ context.Context, _ string) error {
	r.calls++
	if r.failed {
		return errors.New("network down")
	}

	return nil
}

func testUser() models.User {
	return models.User{
		ID:      "user-1",
		Name:    "Dana",
		Email:   "dana@example.com",
		Session: "session-1",
	}
}

func TestLoginPersistsAcrossRestart(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "session.json")

	store := New(sessionfile.New(fileName), &logoutRecorder{})
	require.True(t, store.Ready())
	require.NoError(t, store.Login(testUser()))

	// A fresh store over the same file simulates a process restart.
	restarted := New(sessionfile.New(fileName), &logoutRecorder{})
	require.True(t, restarted.Ready())

	current, loggedIn := restarted.Current()
	require.True(t, loggedIn)
	assert.Equal(t, testUser(), current)
}

func TestLogoutClearsEverything(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "session.json")
	recorder := &logoutRecorder{}

	store := New(sessionfile.New(fileName), recorder)
	require.NoError(t, store.Login(testUser()))
	require.NoError(t, store.Logout(context.Background()))

	_, loggedIn := store.Current()
	assert.False(t, loggedIn)
	assert.Equal(t, 1, recorder.calls)

	restarted := New(sessionfile.New(fileName), &logoutRecorder{})
	_, loggedIn = restarted.Current()
	assert.False(t, loggedIn)
}

func TestLogoutProceedsWhenServerCallFails(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "session.json")
	recorder := &logoutRecorder{failed: true}

	store := New(sessionfile.New(fileName), recorder)
	require.NoError(t, store.Login(testUser()))

	// The server-side invalidation is best-effort: its failure must not
	// block the local logout.
	require.NoError(t, store.Logout(context.Background()))

	_, loggedIn := store.Current()
	assert.False(t, loggedIn)
	assert.Equal(t, 1, recorder.calls)
}

func TestLogoutWithoutSessionIsNoop(t *testing.T) {
	recorder := &logoutRecorder{}
	store := New(sessionfile.New(filepath.Join(t.TempDir(), "session.json")), recorder)

	require.NoError(t, store.Logout(context.Background()))
	assert.Equal(t, 0, recorder.calls)
}

func TestCorruptRecordIsDiscarded(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(fileName, []byte("{not json"), 0644))

	store := New(sessionfile.New(fileName), &logoutRecorder{})
	require.True(t, store.Ready())

	_, loggedIn := store.Current()
	assert.False(t, loggedIn)

	// The bad file must be gone so the next start is clean.
	_, err := os.Stat(fileName)
	assert.True(t, os.IsNotExist(err))
}

func TestLoginOverwritesPriorSession(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "session.json")
	store := New(sessionfile.New(fileName), &logoutRecorder{})

	require.NoError(t, store.Login(testUser()))

	replacement := testUser()
	replacement.ID = "user-2"
	replacement.Session = "session-2"
	require.NoError(t, store.Login(replacement))

	current, loggedIn := store.Current()
	require.True(t, loggedIn)
	assert.Equal(t, "user-2", current.ID)
}
