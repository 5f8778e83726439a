package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"obanlint/internal/check"
	"obanlint/internal/source"
)

// Bump when the payload format changes; stale entries miss cleanly.
const cacheSchemaVersion uint16 = 1

// Digest is a sha256 value, compatible with source.File.Hash.
type Digest = [32]byte

// DiskCache memoizes per-file scan results keyed by content hash and rule
// options, so unchanged files skip lexing, parsing and checking on repeat
// runs. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedIssue is one issue with spans reduced to byte offsets; the file
// identity comes from the cache key.
type CachedIssue struct {
	Message string
	Trigger string
	Start   uint32
	End     uint32
}

// CachePayload is the serialized per-file result. Only clean parses are
// cached: files with lex or parse diagnostics are re-scanned every run.
type CachePayload struct {
	Schema uint16
	Issues []CachedIssue
}

// OpenDiskCache initializes a cache under dir, or under the standard user
// cache location when dir is empty.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "obanlint")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// cacheKey mixes the file content hash with the rule options, so changing
// either invalidates the entry.
func cacheKey(contentHash Digest, opts check.Options) Digest {
	h := sha256.New()
	h.Write(contentHash[:])
	for _, s := range []string{
		opts.BuilderTail, opts.ExecutorTail, opts.FrameworkTail,
		opts.FailureTag, opts.SuccessTag,
	} {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "files", hex.EncodeToString(key[:])+".mp")
}

// Lookup reconstructs a FileResult for an unchanged file. Misses and
// undecodable entries both return ok=false; a broken cache never breaks
// the scan.
func (c *DiskCache) Lookup(fs *source.FileSet, fileID source.FileID, opts check.Options) (FileResult, bool) {
	if c == nil {
		return FileResult{}, false
	}
	file := fs.Get(fileID)
	if file == nil {
		return FileResult{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(cacheKey(file.Hash, opts)))
	if err != nil {
		return FileResult{}, false
	}
	defer f.Close() //nolint:errcheck // read-only handle

	var payload CachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil || payload.Schema != cacheSchemaVersion {
		return FileResult{}, false
	}

	issues := make([]check.Issue, 0, len(payload.Issues))
	for _, ci := range payload.Issues {
		issues = append(issues, check.Issue{
			Message: ci.Message,
			Trigger: ci.Trigger,
			Span:    source.Span{File: fileID, Start: ci.Start, End: ci.End},
		})
	}

	bag := newIssueBag(issues)
	return FileResult{
		Path:      file.Path,
		FileID:    fileID,
		Bag:       bag,
		Issues:    issues,
		FromCache: true,
	}, true
}

// Store writes a file's result. Results that carry lex/parse diagnostics
// are skipped so later runs re-report them.
func (c *DiskCache) Store(fs *source.FileSet, fileID source.FileID, opts check.Options, res FileResult) {
	if c == nil {
		return
	}
	if res.Bag != nil && res.Bag.Len() != len(res.Issues) {
		return
	}
	file := fs.Get(fileID)
	if file == nil {
		return
	}

	payload := CachePayload{Schema: cacheSchemaVersion}
	for _, iss := range res.Issues {
		payload.Issues = append(payload.Issues, CachedIssue{
			Message: iss.Message,
			Trigger: iss.Trigger,
			Start:   iss.Span.Start,
			End:     iss.Span.End,
		})
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(cacheKey(file.Hash, opts))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after rename

	if err := msgpack.NewEncoder(tmp).Encode(&payload); err != nil {
		tmp.Close() //nolint:errcheck // already failing
		return
	}
	if err := tmp.Close(); err != nil {
		return
	}
	// atomic swap keeps concurrent readers consistent
	_ = os.Rename(tmp.Name(), p)
}

// DropAll removes every cache entry, for schema resets and --no-cache runs
// that want a clean slate.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := filepath.Join(c.dir, "files")
	if err := os.RemoveAll(entries); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
