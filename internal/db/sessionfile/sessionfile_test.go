package sessionfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/grocart/internal/models"
)

func testUser() models.User {
	return models.User{
		ID:      "user-1",
		Name:    "Dana",
		Email:   "dana@example.com",
		Session: "session-1",
	}
}

func TestSaveAndLoad(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "session.json")
	db := New(fileName)

	require.NoError(t, db.Save(testUser()))

	loaded, found, err := db.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, testUser(), loaded)
}

func TestLoadMissingFile(t *testing.T) {
	db := New(filepath.Join(t.TempDir(), "session.json"))

	_, found, err := db.Load()
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoadCorruptRecord(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(fileName, []byte("{not json"), 0644))

	_, _, err := New(fileName).Load()
	assert.True(t, errors.Is(err, ErrCorruptRecord))
}

func TestLoadRecordWithoutUserID(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(fileName, []byte(`{"user":{}}`), 0644))

	_, _, err := New(fileName).Load()
	assert.True(t, errors.Is(err, ErrCorruptRecord))
}

func TestSaveOverwrites(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "session.json")
	db := New(fileName)

	require.NoError(t, db.Save(testUser()))

	replacement := testUser()
	replacement.ID = "user-2"
	require.NoError(t, db.Save(replacement))

	loaded, found, err := db.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "user-2", loaded.ID)
}

func TestClear(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "session.json")
	db := New(fileName)

	require.NoError(t, db.Save(testUser()))
	require.NoError(t, db.Clear())

	_, found, err := db.Load()
	require.NoError(t, err)
	assert.False(t, found)

	// Clearing an already empty store is not an error.
	require.NoError(t, db.Clear())
}
