package blob

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Location is a store plus the key of one object in it.
type Location struct {
	Store Store
	Key   string
}

func (l Location) String() string {
	if l.Store == nil {
		return l.Key
	}
	return string(l.Store.Driver()) + ":" + l.Key
}

// Put writes r to the location.
func (l Location) Put(ctx context.Context, r io.Reader) error {
	return l.Store.Put(ctx, l.Key, r)
}

// Get opens the object at the location.
func (l Location) Get(ctx context.Context) (io.ReadCloser, error) {
	return l.Store.Get(ctx, l.Key)
}

// Open resolves uri to a Location. "s3://bucket/key" selects S3 with
// s3cfg supplying region and endpoint; anything else is a local path.
func Open(ctx context.Context, uri string, s3cfg S3Config) (Location, error) {
	if rest, ok := strings.CutPrefix(uri, "s3://"); ok {
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return Location{}, fmt.Errorf("invalid s3 location %q: want s3://bucket/key", uri)
		}
		s3cfg.Bucket = bucket
		store, err := NewS3(ctx, s3cfg)
		if err != nil {
			return Location{}, err
		}
		return Location{Store: store, Key: key}, nil
	}

	if strings.TrimSpace(uri) == "" {
		return Location{}, fmt.Errorf("empty location")
	}
	abs, err := filepath.Abs(uri)
	if err != nil {
		return Location{}, err
	}
	store, err := NewFilesystem(filepath.Dir(abs))
	if err != nil {
		return Location{}, err
	}
	return Location{Store: store, Key: filepath.Base(abs)}, nil
}
