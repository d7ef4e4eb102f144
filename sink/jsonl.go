package sink

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/teranos/labelgate/errors"
)

// File system permissions for created artifacts
const (
	DirPermissions  = 0o755
	FilePermissions = 0o644
)

// Sink accepts a batch of entries and reports the path it wrote, or "" when
// there was nothing to write.
type Sink[T any] interface {
	Write(entries []T) (string, error)
}

// EncodeJSONL renders entries as one JSON object per line.
// HTML escaping is off and non-ASCII text is kept as is.
func EncodeJSONL[T any](entries []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for i, e := range entries {
		if err := enc.Encode(e); err != nil {
			return nil, errors.Wrapf(err, "encode entry %d", i)
		}
	}
	return buf.Bytes(), nil
}

// writeAtomic replaces path with prefix followed by the encoded entries.
// Readers see either the old file or the complete new one.
func writeAtomic[T any](path string, prefix []byte, entries []T) error {
	body, err := EncodeJSONL(entries)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return errors.Wrapf(err, "create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "create temp file in %s", dir)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(prefix); err != nil {
		return errors.Wrap(err, "write temp file")
	}
	if _, err := tmp.Write(body); err != nil {
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Chmod(FilePermissions); err != nil {
		return errors.Wrap(err, "chmod temp file")
	}
	if err := tmp.Sync(); err != nil {
		return errors.Wrap(err, "sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "rename into %s", path)
	}
	committed = true
	return nil
}
