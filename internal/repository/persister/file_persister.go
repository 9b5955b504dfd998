package persister

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"ai-agent-platform/pkg/profile"
)

var safeID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FilePersister writes one pretty-printed JSON document per session:
// <dir>/profiles/<id>.json for answers and <dir>/sessions/<id>.json for the
// full snapshot taken at shutdown.
type FilePersister struct {
	dir string
}

func NewFilePersister(dir string) (*FilePersister, error) {
	for _, sub := range []string{"profiles", "sessions"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create %s directory: %w", sub, err)
		}
	}
	return &FilePersister{dir: dir}, nil
}

func (p *FilePersister) SaveProfile(_ context.Context, sessionID string, fields map[string]string) error {
	return p.write("profiles", sessionID, fields)
}

func (p *FilePersister) SaveSession(_ context.Context, snapshot profile.Snapshot) error {
	return p.write("sessions", snapshot.ID, snapshot)
}

func (p *FilePersister) ProfilePath(sessionID string) string {
	return filepath.Join(p.dir, "profiles", sessionID+".json")
}

func (p *FilePersister) SessionPath(sessionID string) string {
	return filepath.Join(p.dir, "sessions", sessionID+".json")
}

// write goes through a temp file and rename so readers never see a partial
// document.
func (p *FilePersister) write(kind, sessionID string, v interface{}) error {
	if !safeID.MatchString(sessionID) {
		return fmt.Errorf("refusing to write %s for session id %q", kind, sessionID)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", kind, err)
	}

	target := filepath.Join(p.dir, kind, sessionID+".json")
	tmp, err := os.CreateTemp(filepath.Dir(target), sessionID+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}
