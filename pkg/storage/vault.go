package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Vault directory names, siblings under the configured root.
const (
	DirTemplates = "InspectionTemplates"
	DirWorking   = "WorkingInspectionTemplates"
	DirCompleted = "CompletedInspectionTemplates"
)

const tempPrefix = ".tmp-"

// Vault owns the three inspection directories and provides crash-safe
// file operations. Completed-record writes go through WriteAtomic so a
// crash mid-write leaves either nothing or a fully valid file.
type Vault struct {
	root string
}

// NewVault ensures the directory tree exists and returns a handle.
// Directory creation is idempotent and safe under concurrent invocation.
func NewVault(root string) (*Vault, error) {
	if root == "" {
		root = "./data"
	}
	v := &Vault{root: root}
	if err := v.EnsureDirectories(); err != nil {
		return nil, err
	}
	return v, nil
}

// EnsureDirectories creates the template, working and completed directories.
func (v *Vault) EnsureDirectories() error {
	for _, dir := range []string{DirTemplates, DirWorking, DirCompleted} {
		if err := os.MkdirAll(filepath.Join(v.root, dir), 0o755); err != nil {
			return fmt.Errorf("create %s directory: %w", dir, err)
		}
	}
	return nil
}

// Root returns the vault root path.
func (v *Vault) Root() string {
	return v.root
}

// Path resolves a file name inside one of the vault directories.
func (v *Vault) Path(dir, name string) string {
	return filepath.Join(v.root, dir, SanitizeFileName(name))
}

// WriteAtomic commits data to <root>/<dir>/<name> via a temp file and rename.
// Returns the absolute path of the committed file.
func (v *Vault) WriteAtomic(dir, name string, data []byte) (string, error) {
	target := v.Path(dir, name)
	parent := filepath.Dir(target)

	tmp, err := os.CreateTemp(parent, tempPrefix+"*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("commit file: %w", err)
	}
	return target, nil
}

// Read returns the contents of a vault file.
func (v *Vault) Read(dir, name string) ([]byte, error) {
	data, err := os.ReadFile(v.Path(dir, name))
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", dir, name, err)
	}
	return data, nil
}

// Exists reports whether a file is present in the given directory.
func (v *Vault) Exists(dir, name string) bool {
	_, err := os.Stat(v.Path(dir, name))
	return err == nil
}

// Delete removes a vault file if present.
func (v *Vault) Delete(dir, name string) error {
	if err := os.Remove(v.Path(dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s/%s: %w", dir, name, err)
	}
	return nil
}

// List returns the sorted file names in a vault directory, excluding
// uncommitted temp files.
func (v *Vault) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(v.root, dir))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), tempPrefix) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// HashFile computes the SHA-256 digest of the exact bytes on disk,
// returned as lowercase hex. Hashing the persisted bytes (not any
// in-memory representation) makes a later read-back-and-rehash a true
// tamper detector.
func (v *Vault) HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for hashing: %w", err)
	}
	defer file.Close() //nolint:errcheck

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashBytes computes the SHA-256 digest of a byte slice as lowercase hex.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SanitizeFileName makes a template or record name safe for use as a
// file name: spaces become underscores and path separators are dropped.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return -1
		}
		return r
	}, name)
	return name
}
