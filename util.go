package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

func randomHex(n int) string {
	hex := strings.Replace(uuid.New().String(), "-", "", -1)
	return hex[:n]
}

// writeFileAtomic writes the file so that readers either see the old
// content or the new content, never a partially written file.
func writeFileAtomic(filename string, data []byte) (err error) {
	tmp := filepath.Join(filepath.Dir(filename), "."+filepath.Base(filename)+"-"+randomHex(8))

	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o666)
	if err != nil {
		return
	}
	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return
	}

	return os.Rename(tmp, filename)
}
