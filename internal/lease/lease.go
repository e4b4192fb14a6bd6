// Package lease records which process serves a data directory.
//
// A running API server holds the task store in memory and saves it after every
// mutation, so a CLI writing the same data underneath it would be overwritten.
// The server claims a lease file on startup and releases it on shutdown; other
// commands check for it.
package lease

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const leaseFile = "server.json"

// Lease describes the server that owns a data directory.
type Lease struct {
	Owner     string    `json:"owner"`
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
}

// ForCurrentProcess returns a lease for this process serving addr.
func ForCurrentProcess(addr string) Lease {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	pid := os.Getpid()
	return Lease{
		Owner:     fmt.Sprintf("%s:%d", host, pid),
		PID:       pid,
		Addr:      addr,
		StartedAt: time.Now().UTC(),
	}
}

func leasePath(dir string) string {
	return filepath.Join(dir, leaseFile)
}

// Load reads the lease in dir. A missing lease is an os.ErrNotExist error.
func Load(dir string) (*Lease, error) {
	data, err := os.ReadFile(leasePath(dir))
	if err != nil {
		return nil, err
	}
	var l Lease
	if unmarshalErr := json.Unmarshal(data, &l); unmarshalErr != nil {
		return nil, fmt.Errorf("parsing %s: %w", leaseFile, unmarshalErr)
	}
	return &l, nil
}

// Held returns the current lease, or nil when nobody holds one.
func Held(dir string) (*Lease, error) {
	l, err := Load(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil //nolint:nilnil // no lease is not an error
	}
	return l, err
}

func save(dir string, l Lease) error {
	//nolint:gosec // G301: 0755 is appropriate for the user's clarity directory
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return err
	}
	//nolint:gosec // G306: 0644 is appropriate for a user-readable lease file
	return os.WriteFile(leasePath(dir), data, 0o644)
}

// Claim takes the lease unless someone else holds it. With force an existing
// lease is replaced, which recovers from a server that exited without releasing.
// It returns whether the lease was claimed and the holder that prevented it.
func Claim(dir string, l Lease, force bool) (bool, *Lease, error) {
	existing, err := Held(dir)
	if err != nil {
		return false, nil, err
	}
	if existing != nil && existing.Owner != l.Owner && !force {
		return false, existing, nil
	}
	if err = save(dir, l); err != nil {
		return false, nil, err
	}
	return true, nil, nil
}

// Release removes the lease if owner holds it and reports whether it did.
func Release(dir, owner string) (bool, error) {
	existing, err := Held(dir)
	if err != nil || existing == nil {
		return false, err
	}
	if existing.Owner != owner {
		return false, nil
	}
	if err = os.Remove(leasePath(dir)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	return true, nil
}
