package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"echofm/model"

	"go.etcd.io/bbolt"
)

var (
	sessionBucket = []byte("session")
	playerBucket  = []byte("player")

	keySessionUser  = []byte("user")
	keySessionToken = []byte("token")
	keyPlayerState  = []byte("state")
)

// Store is the device-local key/value store. It holds the persisted session
// and the player snapshot across app restarts.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the local store at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	options := &bbolt.Options{Timeout: 1 * time.Second}
	db, err := bbolt.Open(path, 0600, options)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{sessionBucket, playerBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// SaveSession persists the user and token under the fixed session keys.
func (s *Store) SaveSession(user *model.User, token string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if user == nil {
			if err := b.Delete(keySessionUser); err != nil {
				return err
			}
		} else {
			data, err := json.Marshal(user)
			if err != nil {
				return fmt.Errorf("encode session user: %w", err)
			}
			if err := b.Put(keySessionUser, data); err != nil {
				return err
			}
		}
		return b.Put(keySessionToken, []byte(token))
	})
}

// LoadSession restores the persisted user and token. A missing session yields
// (nil, "", nil).
func (s *Store) LoadSession() (*model.User, string, error) {
	var user *model.User
	var token string

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if raw := b.Get(keySessionUser); raw != nil {
			var u model.User
			if err := json.Unmarshal(raw, &u); err != nil {
				return fmt.Errorf("decode session user: %w", err)
			}
			user = &u
		}
		if raw := b.Get(keySessionToken); raw != nil {
			token = string(raw)
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ClearSession removes the persisted user and token together.
func (s *Store) ClearSession() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if err := b.Delete(keySessionUser); err != nil {
			return err
		}
		return b.Delete(keySessionToken)
	})
}

// SavePlayerState persists the player snapshot blob. The blob's layout is
// owned by the player package; storage treats it as opaque.
func (s *Store) SavePlayerState(blob []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(playerBucket).Put(keyPlayerState, blob)
	})
}

// LoadPlayerState returns the persisted player snapshot blob, or nil when
// none was saved.
func (s *Store) LoadPlayerState() ([]byte, error) {
	var blob []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if raw := tx.Bucket(playerBucket).Get(keyPlayerState); raw != nil {
			blob = make([]byte, len(raw))
			copy(blob, raw)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blob, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
