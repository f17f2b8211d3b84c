package session

import (
	"encoding/json"
	"os"
	"time"

	"github.com/jake-scott/came-domo/internal/pkg/fsutil"
	"github.com/pkg/errors"
)

// Store persists the session token between CLI invocations, the gateway only
// accepts a handful of concurrent sessions so each run re-uses the last one
type Store interface {
	// Load returns the saved token, or an empty string if none was saved
	Load() (string, error)
	Save(token string) error
}

// FileStore keeps the token in a small JSON document
type FileStore struct {
	fileName string
}

// Version of the session that we marshal/unmarshal
type sessionMarshal struct {
	ClientID string    `json:"client-id"`
	Updated  time.Time `json:"updated"`
}

func NewFileStore(fileName string) *FileStore {
	return &FileStore{fileName: fileName}
}

func (f *FileStore) FileName() string {
	return f.fileName
}

func (f *FileStore) Save(token string) error {
	sm := sessionMarshal{
		ClientID: token,
		Updated:  time.Now().UTC(),
	}

	data, err := json.MarshalIndent(sm, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}

	if err := fsutil.SafeWriteFile(f.fileName, append(data, '\n'), 0600); err != nil {
		return errors.Wrapf(err, "saving session to %s", f.fileName)
	}

	return nil
}

func (f *FileStore) Load() (string, error) {
	sm := sessionMarshal{}

	file, err := os.Open(f.fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, "opening session %s for read", f.fileName)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&sm); err != nil {
		return "", errors.Wrapf(err, "loading session from %s", f.fileName)
	}

	return sm.ClientID, nil
}

// MemoryStore keeps the token for the lifetime of the process only
type MemoryStore struct {
	Token string
	Saves int
}

func (m *MemoryStore) Load() (string, error) {
	return m.Token, nil
}

func (m *MemoryStore) Save(token string) error {
	m.Token = token
	m.Saves++
	return nil
}
