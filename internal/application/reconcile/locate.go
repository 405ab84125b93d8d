package reconcile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/eshaffer321/concilia/internal/adapters/document"
)

// ErrTrackerNotFound is returned when no tracker file exists for an account.
var ErrTrackerNotFound = errors.New("tracker file not found")

// FindTrackerFile looks for <account>.<ext> then final_<account>.<ext> in
// dir, trying pdf, xlsx, xls and csv in that order for each name.
func FindTrackerFile(dir, accountID string) (string, error) {
	for _, stem := range []string{accountID, "final_" + accountID} {
		for _, ext := range document.Extensions {
			path := filepath.Join(dir, stem+ext)
			info, err := os.Stat(path)
			if err == nil && !info.IsDir() {
				return path, nil
			}
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return "", err
			}
		}
	}
	return "", ErrTrackerNotFound
}
