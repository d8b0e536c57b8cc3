package store

import (
	"bytes"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/skinpack/anim"
)

const (
	BUCKET_ANIMATIONS = "animations"
	BUCKET_TAGS       = "tags"
)

var ErrNotFound = errors.New("not found")

// Store is a resource file holding animations one per key, each encoded as a
// single-animation stream, plus named tags grouping animation names.
type Store struct {
	db *bolt.DB
}

func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0666, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open resource file %q", path)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{BUCKET_ANIMATIONS, BUCKET_TAGS} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "Failed to create buckets in %q", path)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) PutAnimation(a *anim.Animation) error {
	var buf bytes.Buffer
	if err := anim.EncodeAnimation(&buf, a); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BUCKET_ANIMATIONS)).Put([]byte(a.Name), buf.Bytes())
	})
}

// PutSet stores every animation of set in one transaction.
func (s *Store) PutSet(set *anim.Set) error {
	encoded := make(map[string][]byte, set.Len())
	for _, a := range set.Animations() {
		var buf bytes.Buffer
		if err := anim.EncodeAnimation(&buf, a); err != nil {
			return err
		}
		encoded[a.Name] = buf.Bytes()
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BUCKET_ANIMATIONS))
		for _, name := range set.Names() {
			if err := bucket.Put([]byte(name), encoded[name]); err != nil {
				return errors.Wrapf(err, "Failed to put animation %q", name)
			}
		}
		return nil
	})
}

func (s *Store) Animation(name string) (*anim.Animation, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(BUCKET_ANIMATIONS)).Get([]byte(name)); v != nil {
			// value is only valid inside the transaction
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read animation %q", name)
	}
	if data == nil {
		return nil, errors.Wrapf(ErrNotFound, "animation %q", name)
	}

	set, err := anim.DecodeValidated(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "Stored animation %q is corrupted", name)
	}
	a, ok := set.Get(name)
	if !ok || set.Len() != 1 {
		return nil, errors.Errorf("Stored animation %q has unexpected content %v", name, set.Names())
	}
	return a, nil
}

// Names lists stored animations in key order.
func (s *Store) Names() ([]string, error) {
	names := make([]string, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BUCKET_ANIMATIONS)).ForEach(func(k, v []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// Set loads every stored animation.
func (s *Store) Set() (*anim.Set, error) {
	names, err := s.Names()
	if err != nil {
		return nil, err
	}
	set := anim.NewSet()
	for _, name := range names {
		a, err := s.Animation(name)
		if err != nil {
			return nil, err
		}
		set.Add(a)
	}
	return set, nil
}

func (s *Store) Delete(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BUCKET_ANIMATIONS))
		if bucket.Get([]byte(name)) == nil {
			return errors.Wrapf(ErrNotFound, "animation %q", name)
		}
		return bucket.Delete([]byte(name))
	})
}

// PutTag records the animation names grouped under tag.
func (s *Store) PutTag(tag string, names []string) error {
	data, err := yaml.Marshal(names)
	if err != nil {
		return errors.Wrapf(err, "Failed to marshal tag %q", tag)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BUCKET_TAGS)).Put([]byte(tag), data)
	})
}

func (s *Store) Tag(tag string) ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(BUCKET_TAGS)).Get([]byte(tag))
		if v == nil {
			return errors.Wrapf(ErrNotFound, "tag %q", tag)
		}
		return yaml.Unmarshal(v, &names)
	})
	return names, err
}
