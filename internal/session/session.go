// Package session holds the authenticated identity of the running
// client. The identity lives in memory and in a durable file record, so
// a restarted client resumes the same session. Until the store finishes
// rehydrating, consumers must treat the session as unknown rather than
// unauthenticated.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/patric-chuzhbe/grocart/internal/db/sessionfile"
	"github.com/patric-chuzhbe/grocart/internal/logger"
	"github.com/patric-chuzhbe/grocart/internal/models"
)

type sessionKeeper interface {
	Load() (usr models.User, found bool, err error)
	Save(usr models.User) error
	Clear() error
}

type logoutCaller interface {
	Logout(ctx context.Context, session string) error
}

// Store is the user session store.
type Store struct {
	mu       sync.Mutex
	keeper   sessionKeeper
	usersAPI logoutCaller
	current  *models.User
	ready    bool
}

// New creates the store and synchronously rehydrates the identity from
// durable storage before returning, so the store is ready the moment it
// exists. A corrupt stored record is discarded with a warning and the
// store starts unauthenticated.
func New(keeper sessionKeeper, usersAPI logoutCaller) *Store {
	store := &Store{
		keeper:   keeper,
		usersAPI: usersAPI,
	}

	usr, found, err := keeper.Load()
	switch {
	case errors.Is(err, sessionfile.ErrCorruptRecord):
		logger.Log.Warnln("Discarding corrupt session record:", err)
		if clearErr := keeper.Clear(); clearErr != nil {
			logger.Log.Warnln("Unable to remove corrupt session record:", clearErr)
		}
	case err != nil:
		logger.Log.Warnln("Unable to rehydrate session:", err)
	case found:
		store.current = &usr
	}

	store.ready = true

	return store
}

// Ready reports whether rehydration has completed. Before that the
// session state is unknown, not unauthenticated.
func (s *Store) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ready
}

// Current returns the authenticated user, if any.
func (s *Store) Current() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return models.User{}, false
	}

	return *s.current, true
}

// Login stores the identity in memory and in durable storage,
// overwriting any prior session.
func (s *Store) Login(usr models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.keeper.Save(usr); err != nil {
		return err
	}
	s.current = &usr

	return nil
}

// Logout invalidates the server-side session best-effort and always
// clears the local one. A failed network call is logged, never blocks
// the local logout.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}

	if s.current.Session != "" {
		if err := s.usersAPI.Logout(ctx, s.current.Session); err != nil {
			logger.Log.Warnln("Server-side logout failed, proceeding with local logout:", err)
		}
	}

	s.current = nil

	return s.keeper.Clear()
}
