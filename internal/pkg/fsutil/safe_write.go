package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

const DefaultDirectoryPermissions = 0700

// SafeWriteFile replaces name with data without ever leaving a truncated file
// behind: the new content is written beside the target and renamed over it.
// Missing parent directories are created.
func SafeWriteFile(name string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(name), DefaultDirectoryPermissions); err != nil {
		return errors.Wrapf(err, "creating directory for %s", name)
	}

	ut := time.Now().UnixNano() / int64(time.Millisecond)
	baseName := fmt.Sprintf("%s-%d", name, ut)
	newName := fmt.Sprintf("%s-new", baseName)
	oldName := fmt.Sprintf("%s-old", baseName)

	if err := os.WriteFile(newName, data, perm); err != nil {
		return errors.Wrap(err, "writing new file")
	}

	_, err := os.Stat(name)
	oldExists := !os.IsNotExist(err)

	if oldExists {
		if err := os.Rename(name, oldName); err != nil {
			os.Remove(newName)
			return errors.Wrap(err, "moving old file to temporary location")
		}
	}

	if err := os.Rename(newName, name); err != nil {
		return errors.Wrap(err, "moving new file to file location")
	}

	if oldExists {
		if err := os.Remove(oldName); err != nil {
			return errors.Wrap(err, "removing old file")
		}
	}

	return nil
}
