package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FSStore implements Store on the filesystem. Sessions live under
// <baseDir>/sessions/<id>/session.json and are written with the temp
// file + rename pattern, so no locking is needed.
type FSStore struct {
	baseDir string
}

// NewFSStore creates a filesystem store, creating baseDir if needed.
func NewFSStore(baseDir string) (*FSStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &FSStore{baseDir: baseDir}, nil
}

func (fs *FSStore) sessionDir(id string) string {
	return filepath.Join(fs.baseDir, "sessions", id)
}

func (fs *FSStore) sessionPath(id string) string {
	return filepath.Join(fs.sessionDir(id), "session.json")
}

// SaveSession atomically persists a session.
func (fs *FSStore) SaveSession(session *Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}
	if err := session.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid session: %w", err)
	}

	dir := fs.sessionDir(session.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	tempPath := fs.sessionPath(session.ID) + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp session file: %w", err)
	}

	finalPath := fs.sessionPath(session.ID)
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename session file: %w", err)
	}

	slog.Debug("Session saved", "id", session.ID, "path", finalPath)
	return nil
}

// LoadSession retrieves and validates a session by ID.
func (fs *FSStore) LoadSession(id string) (*Session, error) {
	data, err := os.ReadFile(fs.sessionPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to deserialize session: %w", err)
	}
	if err := session.Validate(); err != nil {
		return nil, fmt.Errorf("stored session is invalid: %w", err)
	}
	return &session, nil
}

// ListSessions scans the session directory and returns metadata for each
// readable session, skipping corrupt entries with a warning.
func (fs *FSStore) ListSessions() ([]SessionInfo, error) {
	root := filepath.Join(fs.baseDir, "sessions")
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []SessionInfo{}, nil
		}
		return nil, fmt.Errorf("failed to scan session directory: %w", err)
	}

	infos := make([]SessionInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		session, err := fs.LoadSession(entry.Name())
		if err != nil {
			slog.Warn("Skipping unreadable session", "id", entry.Name(), "error", err)
			continue
		}
		infos = append(infos, session.ToInfo())
	}
	return infos, nil
}

// DeleteSession removes a session directory and everything in it.
func (fs *FSStore) DeleteSession(id string) error {
	dir := fs.sessionDir(id)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return &NotFoundError{ID: id}
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	slog.Debug("Session deleted", "id", id)
	return nil
}
