package fetcher

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"FinLens/internal/model"
)

// Result lists what a fetch managed to do, including partial progress
// before a failure.
type Result struct {
	Bucket     string
	Empty      bool
	Downloaded []string
	Extracted  []string
}

// Fetcher downloads every object of a bucket and extracts it locally.
type Fetcher struct {
	Store ObjectStore
}

// NewFetcher creates a new Fetcher.
func NewFetcher(store ObjectStore) *Fetcher {
	return &Fetcher{Store: store}
}

// Fetch lists bucket, ensures dest exists, then downloads each object to
// dest/<basename(key)> and extracts it as a zip into dest.
// The first failure aborts the remaining objects.
func (f *Fetcher) Fetch(ctx context.Context, bucket, dest string) (*Result, error) {
	res := &Result{Bucket: bucket}

	keys, err := f.Store.ListKeys(ctx, bucket)
	if err != nil {
		return res, fmt.Errorf("%w: %w", model.ErrRemoteAccess, err)
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return res, fmt.Errorf("create %s: %w", dest, err)
	}
	if len(keys) == 0 {
		log.Printf("[WARN] The bucket '%s' is empty or does not exist.", bucket)
		res.Empty = true
		return res, nil
	}

	log.Printf("[INFO] %s: %d object(s) in %s", f.Store.Name(), len(keys), bucket)
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if strings.HasSuffix(key, "/") {
			continue
		}

		local := filepath.Join(dest, path.Base(key))
		if err := f.download(ctx, bucket, key, local); err != nil {
			return res, fmt.Errorf("%w: %w", model.ErrRemoteAccess, err)
		}
		res.Downloaded = append(res.Downloaded, local)

		files, err := extractZip(local, dest)
		res.Extracted = append(res.Extracted, files...)
		if err != nil {
			return res, fmt.Errorf("%w: %s: %w", model.ErrArchiveExtraction, local, err)
		}
		log.Printf("[INFO] %s: extracted %d file(s)", key, len(files))
	}
	return res, nil
}

func (f *Fetcher) download(ctx context.Context, bucket, key, local string) error {
	out, err := os.Create(local)
	if err != nil {
		return fmt.Errorf("create %s: %w", local, err)
	}
	n, err := f.Store.Download(ctx, bucket, key, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	log.Printf("[INFO] downloaded %s (%d bytes)", key, n)
	return nil
}
