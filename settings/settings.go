// Package settings stores per-journal plugin settings.
//
// Values are kept as protobuf Struct values, one Struct per journal context,
// and persisted as protojson so the file stays readable:
//
//	{
//	  "1": {"enabled": true, "forceJatsTemplate": false}
//	}
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/spf13/afero"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Store reads and writes plugin settings for a journal context.
type Store interface {
	// Setting returns the stored value for key, or nil if unset.
	Setting(contextID int, key string) *structpb.Value

	// UpdateSetting stores a value for key.
	UpdateSetting(contextID int, key string, v *structpb.Value) error
}

// FileStore is a Store persisted to a single JSON file.
type FileStore struct {
	mu       sync.RWMutex
	fs       afero.Fs
	path     string
	contexts map[int]*structpb.Struct
}

var _ Store = (*FileStore)(nil)

// Open loads the settings file at path. A missing file yields an empty store
// that is created on the first update.
func Open(fsys afero.Fs, path string) (*FileStore, error) {
	s := &FileStore{
		fs:       fsys,
		path:     path,
		contexts: make(map[int]*structpb.Struct),
	}

	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	root := &structpb.Struct{}
	if err := protojson.Unmarshal(data, root); err != nil {
		return nil, fmt.Errorf("parsing settings file: %w", err)
	}
	for key, v := range root.GetFields() {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("parsing settings file: invalid context id %q", key)
		}
		ctx := v.GetStructValue()
		if ctx == nil {
			return nil, fmt.Errorf("parsing settings file: context %d is not an object", id)
		}
		s.contexts[id] = ctx
	}
	return s, nil
}

// Setting implements Store.
func (s *FileStore) Setting(contextID int, key string) *structpb.Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contexts[contextID].GetFields()[key]
}

// UpdateSetting implements Store and writes the file.
func (s *FileStore) UpdateSetting(contextID int, key string, v *structpb.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, ok := s.contexts[contextID]
	if !ok {
		ctx = &structpb.Struct{Fields: make(map[string]*structpb.Value)}
		s.contexts[contextID] = ctx
	}
	if ctx.Fields == nil {
		ctx.Fields = make(map[string]*structpb.Value)
	}
	ctx.Fields[key] = v
	return s.save()
}

// Settings returns a copy of all settings for a context.
func (s *FileStore) Settings(contextID int) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contexts[contextID].AsMap()
}

func (s *FileStore) save() error {
	root := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(s.contexts))}
	for id, ctx := range s.contexts {
		root.Fields[strconv.Itoa(id)] = structpb.NewStructValue(ctx)
	}

	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(root)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating settings directory: %w", err)
		}
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// Bool reads a boolean setting. Unset and non-boolean values read as false,
// except the strings "1", "true" and "on" submitted by forms.
func Bool(s Store, contextID int, key string) bool {
	v := s.Setting(contextID, key)
	switch k := v.GetKind().(type) {
	case *structpb.Value_BoolValue:
		return k.BoolValue
	case *structpb.Value_NumberValue:
		return k.NumberValue != 0
	case *structpb.Value_StringValue:
		b, err := strconv.ParseBool(k.StringValue)
		return err == nil && b || k.StringValue == "on"
	default:
		return false
	}
}

// SetBool stores a boolean setting.
func SetBool(s Store, contextID int, key string, b bool) error {
	return s.UpdateSetting(contextID, key, structpb.NewBoolValue(b))
}
