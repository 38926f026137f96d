// Package artifact persists model objects and other Go values under the
// workspace models directory. Values are encoded with a closed set of
// codecs; the file extension records which codec wrote an artifact so loads
// never guess.
package artifact

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store errors.
var (
	// ErrInvalidCodec is returned for codec names outside the closed set.
	ErrInvalidCodec = errors.New("invalid codec")

	// ErrNotFound is returned when no artifact exists under a name.
	ErrNotFound = errors.New("artifact not found")
)

// Codec selects the serialization format for an artifact.
type Codec int

const (
	// CodecGob encodes with encoding/gob; compact and Go-native.
	CodecGob Codec = iota
	// CodecJSON encodes with encoding/json; readable and portable.
	CodecJSON
)

// ParseCodec converts a codec name to a Codec, rejecting unknown values.
func ParseCodec(s string) (Codec, error) {
	switch s {
	case "gob":
		return CodecGob, nil
	case "json":
		return CodecJSON, nil
	default:
		return CodecGob, fmt.Errorf("%w: %q (want gob or json)", ErrInvalidCodec, s)
	}
}

// String returns the canonical codec name, which doubles as the artifact
// file extension.
func (c Codec) String() string {
	switch c {
	case CodecGob:
		return "gob"
	case CodecJSON:
		return "json"
	default:
		return fmt.Sprintf("Codec(%d)", int(c))
	}
}

// Store reads and writes artifacts under a root directory.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Save encodes v with the codec and writes it under name. The write is
// atomic (temp file plus rename); parent directories are created. Name may
// contain path separators to group artifacts.
func (s *Store) Save(name string, v any, codec Codec) (string, error) {
	var buf bytes.Buffer
	switch codec {
	case CodecGob:
		if err := gob.NewEncoder(&buf).Encode(v); err != nil {
			return "", fmt.Errorf("gob-encoding %s: %w", name, err)
		}
	case CodecJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return "", fmt.Errorf("json-encoding %s: %w", name, err)
		}
	default:
		return "", fmt.Errorf("%w: %d", ErrInvalidCodec, int(codec))
	}

	path := s.pathFor(name, codec)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("creating artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".artifact-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp artifact: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing artifact %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("closing artifact %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("committing artifact %s: %w", name, err)
	}
	return path, nil
}

// Load decodes the artifact stored under name into out, which must be a
// pointer. The codec is inferred from the stored file's extension; when
// both codecs have written the name, gob wins.
func (s *Store) Load(name string, out any) error {
	for _, codec := range []Codec{CodecGob, CodecJSON} {
		path := s.pathFor(name, codec)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reading artifact %s: %w", name, err)
		}

		switch codec {
		case CodecGob:
			if err := gob.NewDecoder(bytes.NewReader(data)).Decode(out); err != nil {
				return fmt.Errorf("gob-decoding %s: %w", name, err)
			}
		case CodecJSON:
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("json-decoding %s: %w", name, err)
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Exists reports whether an artifact is stored under name with any codec.
func (s *Store) Exists(name string) bool {
	for _, codec := range []Codec{CodecGob, CodecJSON} {
		if _, err := os.Stat(s.pathFor(name, codec)); err == nil {
			return true
		}
	}
	return false
}

func (s *Store) pathFor(name string, codec Codec) string {
	clean := filepath.FromSlash(strings.TrimPrefix(name, "/"))
	return filepath.Join(s.root, clean+"."+codec.String())
}
