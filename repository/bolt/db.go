package bolt

import (
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/todowa/domain"
)

var (
	profilesBucket = []byte("profiles")
	tasksBucket    = []byte("tasks")

	progressKey = []byte("progress")
	settingsKey = []byte("settings")
	metaKey     = []byte("exported_at")
	timerKey    = []byte("timer")
)

// Open opens (or creates) the state database and its root bucket.
func Open(path string) (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, domain.Unavailable("create data directory", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, domain.Unavailable("open bolt database", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(profilesBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, domain.Unavailable("create root bucket", err)
	}
	return db, nil
}

// profile returns the bucket of a profile, or nil when it was never written.
func profile(tx *bolt.Tx, id string) *bolt.Bucket {
	root := tx.Bucket(profilesBucket)
	if root == nil {
		return nil
	}
	return root.Bucket([]byte(id))
}

func ensureProfile(tx *bolt.Tx, id string) (*bolt.Bucket, error) {
	root, err := tx.CreateBucketIfNotExists(profilesBucket)
	if err != nil {
		return nil, err
	}
	return root.CreateBucketIfNotExists([]byte(id))
}
