// Package sessionfile is the durable storage of the current user
// identity: a single JSON record in a file, the client-side equivalent
// of the browser localStorage entry the product originally used.
package sessionfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/patric-chuzhbe/grocart/internal/models"
)

// ErrCorruptRecord reports that the stored session exists but cannot be
// parsed. Callers are expected to discard it and continue without a
// session.
var ErrCorruptRecord = errors.New("the stored session record is corrupt")

// DB reads and writes the single persisted session record.
type DB struct {
	fileName string
}

// New returns a session file store bound to the given file name.
// No file access happens until Load, Save or Clear is called.
func New(fileName string) *DB {
	return &DB{fileName: fileName}
}

type record struct {
	User models.User `json:"user"`
}

func parseJSONFile(fileName string, target *record) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)

	return decoder.Decode(target)
}

func writeToJSONFile(fileName string, source record) error {
	jsonData, err := json.MarshalIndent(source, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	// Write-then-rename keeps the record readable even if the process
	// dies mid-save.
	tmpName := fileName + ".tmp"
	if err := os.WriteFile(tmpName, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}

	return os.Rename(tmpName, fileName)
}

// Load returns the persisted user, or found == false when no record
// exists. An unparsable record yields ErrCorruptRecord.
func (db *DB) Load() (usr models.User, found bool, err error) {
	var stored record

	err = parseJSONFile(db.fileName, &stored)
	if err != nil {
		if os.IsNotExist(err) {
			return models.User{}, false, nil
		}

		return models.User{}, false, fmt.Errorf("%w: %s", ErrCorruptRecord, err)
	}

	if stored.User.ID == "" {
		return models.User{}, false, fmt.Errorf("%w: empty user identifier", ErrCorruptRecord)
	}

	return stored.User, true, nil
}

// Save overwrites the persisted record with the given user.
func (db *DB) Save(usr models.User) error {
	if err := os.MkdirAll(filepath.Dir(db.fileName), 0755); err != nil {
		return err
	}

	return writeToJSONFile(db.fileName, record{User: usr})
}

// Clear removes the persisted record. A missing file is not an error.
func (db *DB) Clear() error {
	err := os.Remove(db.fileName)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}
