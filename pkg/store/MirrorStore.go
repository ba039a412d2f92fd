package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

/*
MirrorStore is the fast synchronous mirror of the settings document: a
single JSON file written on every change and read first at startup. A
missing or unreadable file reads as "no settings," never as a failure.
*/
type MirrorStore struct {
	path string
	mu   sync.RWMutex
}

func NewMirrorStore(path string) *MirrorStore {
	return &MirrorStore{
		path: path,
	}
}

func (m *MirrorStore) GetSettings() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := os.ReadFile(m.path)

	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("error reading settings mirror: %w", err)
	}

	return data, nil
}

func (m *MirrorStore) PutSettings(payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("error creating settings mirror directory: %w", err)
	}

	if err := os.WriteFile(m.path, payload, 0644); err != nil {
		return fmt.Errorf("error writing settings mirror: %w", err)
	}

	return nil
}
