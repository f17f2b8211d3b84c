package layout

import (
	"encoding/json"
	"os"

	"github.com/jake-scott/came-domo/internal/pkg/fsutil"
	"github.com/pkg/errors"
)

// ErrNotCached is returned by Load when no layout was saved yet
var ErrNotCached = errors.New("no cached layout")

// Store is the on-disk copy of the layout. It is always rewritten whole.
type Store struct {
	fileName string
}

func NewStore(fileName string) *Store {
	return &Store{fileName: fileName}
}

func (s *Store) FileName() string {
	return s.fileName
}

func (s *Store) Save(l *Layout) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding layout")
	}

	if err := fsutil.SafeWriteFile(s.fileName, append(data, '\n'), 0644); err != nil {
		return errors.Wrapf(err, "saving layout to %s", s.fileName)
	}

	return nil
}

func (s *Store) Load() (*Layout, error) {
	file, err := os.Open(s.fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotCached, "reading %s", s.fileName)
		}
		return nil, errors.Wrapf(err, "opening layout %s for read", s.fileName)
	}
	defer file.Close()

	l := &Layout{}
	if err := json.NewDecoder(file).Decode(l); err != nil {
		return nil, errors.Wrapf(err, "loading layout from %s", s.fileName)
	}

	l.fill()
	return l, nil
}
