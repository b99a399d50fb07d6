package storage

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/matst80/slask-shelf/pkg/store"
	"github.com/pkg/errors"
)

const sessionFolder = "sessions"

// SessionMirror keeps one gzipped snapshot file per session so sessions
// survive a restart of a single replica.
type SessionMirror struct {
	disk *DiskStorage
}

func NewSessionMirror(disk *DiskStorage) *SessionMirror {
	return &SessionMirror{disk: disk}
}

func sessionFile(sessionId string) (string, error) {
	if _, err := uuid.Parse(sessionId); err != nil {
		return "", errors.Wrapf(err, "session id %q", sessionId)
	}
	return sessionFolder + "/" + sessionId + ".json.gz", nil
}

func (m *SessionMirror) Load(ctx context.Context, sessionId string) (store.Snapshot, bool, error) {
	name, err := sessionFile(sessionId)
	if err != nil {
		return store.Snapshot{}, false, err
	}
	var snapshot store.Snapshot
	if err := m.disk.LoadGzippedJson(&snapshot, name); err != nil {
		if os.IsNotExist(err) {
			return store.Snapshot{}, false, nil
		}
		return store.Snapshot{}, false, errors.Wrapf(err, "load session %s", sessionId)
	}
	return snapshot, true, nil
}

func (m *SessionMirror) Save(ctx context.Context, sessionId string, snapshot store.Snapshot) error {
	name, err := sessionFile(sessionId)
	if err != nil {
		return err
	}
	return errors.Wrapf(m.disk.SaveGzippedJson(snapshot, name), "save session %s", sessionId)
}

func (m *SessionMirror) Delete(ctx context.Context, sessionId string) error {
	name, err := sessionFile(sessionId)
	if err != nil {
		return err
	}
	return m.disk.Remove(name)
}
