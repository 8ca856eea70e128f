// Package store keeps scan history in a bbolt file.
package store

import (
	"errors"
	"os"
	"sort"
	"time"

	"github.com/sagernet/bbolt"
	bboltErrors "github.com/sagernet/bbolt/errors"
	"github.com/sagernet/sing-jarm"
	C "github.com/sagernet/sing-jarm/constant"
	"github.com/sagernet/sing/common"
	E "github.com/sagernet/sing/common/exceptions"
	"github.com/sagernet/sing/common/json"

	"github.com/gofrs/uuid/v5"
)

var (
	bucketScan   = []byte("scan")
	bucketTarget = []byte("target")

	bucketNameList = []string{
		string(bucketScan),
		string(bucketTarget),
	}
)

var ErrNotFound = E.New("scan not found")

type Store struct {
	path string
	DB   *bbolt.DB
}

// Open opens or creates the history file at path. A file bbolt cannot read
// is removed and recreated.
func Open(path string) (*Store, error) {
	const fileMode = 0o666
	options := bbolt.Options{Timeout: C.StoreOpenTimeout}
	var (
		db  *bbolt.DB
		err error
	)
	for i := 0; i < 10; i++ {
		db, err = bbolt.Open(path, fileMode, &options)
		if err == nil {
			break
		}
		if errors.Is(err, bboltErrors.ErrTimeout) {
			continue
		}
		if E.IsMulti(err, bboltErrors.ErrInvalid, bboltErrors.ErrChecksum, bboltErrors.ErrVersionMismatch) {
			rmErr := os.Remove(path)
			if rmErr != nil {
				return nil, err
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	if err != nil {
		return nil, E.Cause(err, "open store at ", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		var staleBuckets []string
		err := tx.ForEach(func(name []byte, b *bbolt.Bucket) error {
			if !common.Contains(bucketNameList, string(name)) {
				staleBuckets = append(staleBuckets, string(name))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, name := range staleBuckets {
			err = tx.DeleteBucket([]byte(name))
			if err != nil {
				return err
			}
		}
		for _, name := range bucketNameList {
			_, err = tx.CreateBucketIfNotExists([]byte(name))
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{path: path, DB: db}, nil
}

func (s *Store) Path() string {
	return s.path
}

// Save records result and makes it the latest scan of its target.
func (s *Store) Save(result *jarm.Result) error {
	if result.ID == uuid.Nil {
		return E.New("missing scan id")
	}
	content, err := json.Marshal(result)
	if err != nil {
		return E.Cause(err, "encode scan")
	}
	return s.DB.Batch(func(tx *bbolt.Tx) error {
		err := tx.Bucket(bucketScan).Put(result.ID.Bytes(), content)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketTarget).Put([]byte(result.Target()), result.ID.Bytes())
	})
}

func (s *Store) Load(id uuid.UUID) (*jarm.Result, error) {
	var result *jarm.Result
	err := s.DB.View(func(tx *bbolt.Tx) error {
		content := tx.Bucket(bucketScan).Get(id.Bytes())
		if content == nil {
			return ErrNotFound
		}
		var err error
		result, err = decodeResult(content)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Latest returns the most recently saved scan of host:port.
func (s *Store) Latest(host string, port string) (*jarm.Result, error) {
	var result *jarm.Result
	err := s.DB.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket(bucketTarget).Get([]byte(jarm.Target(host, port)))
		if id == nil {
			return ErrNotFound
		}
		content := tx.Bucket(bucketScan).Get(id)
		if content == nil {
			return ErrNotFound
		}
		var err error
		result, err = decodeResult(content)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// List returns every saved scan, oldest first.
func (s *Store) List() ([]*jarm.Result, error) {
	var results []*jarm.Result
	err := s.DB.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketScan).ForEach(func(key, content []byte) error {
			result, err := decodeResult(content)
			if err != nil {
				return E.Cause(err, "decode scan ", uuid.FromBytesOrNil(key))
			}
			results = append(results, result)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ScannedAt.Before(results[j].ScannedAt)
	})
	return results, nil
}

// Delete removes a scan. When it was the latest of its target, the next
// most recent scan of that target takes its place.
func (s *Store) Delete(id uuid.UUID) error {
	return s.DB.Update(func(tx *bbolt.Tx) error {
		scanBucket := tx.Bucket(bucketScan)
		content := scanBucket.Get(id.Bytes())
		if content == nil {
			return ErrNotFound
		}
		deleted, err := decodeResult(content)
		if err != nil {
			return err
		}
		err = scanBucket.Delete(id.Bytes())
		if err != nil {
			return err
		}
		targetBucket := tx.Bucket(bucketTarget)
		target := []byte(deleted.Target())
		latestID := targetBucket.Get(target)
		if latestID == nil || uuid.FromBytesOrNil(latestID) != id {
			return nil
		}
		var replacement *jarm.Result
		err = scanBucket.ForEach(func(_, content []byte) error {
			result, err := decodeResult(content)
			if err != nil {
				return err
			}
			if result.Target() == deleted.Target() && (replacement == nil || result.ScannedAt.After(replacement.ScannedAt)) {
				replacement = result
			}
			return nil
		})
		if err != nil {
			return err
		}
		if replacement == nil {
			return targetBucket.Delete(target)
		}
		return targetBucket.Put(target, replacement.ID.Bytes())
	})
}

func (s *Store) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

func decodeResult(content []byte) (*jarm.Result, error) {
	return json.UnmarshalExtended[*jarm.Result](content)
}
