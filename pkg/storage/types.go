package storage

import (
	"path/filepath"
	"strconv"
	"time"
)

// DiskStorage reads and writes files below RootFolder/Country.
type DiskStorage struct {
	Country    string
	RootFolder string
}

func NewDiskStorage(country, rootFolder string) *DiskStorage {
	return &DiskStorage{
		Country:    country,
		RootFolder: rootFolder,
	}
}

func (ds *DiskStorage) Folder() string {
	return filepath.Join(ds.RootFolder, ds.Country)
}

// GetFileName returns the path of name and a temporary path to write it
// through before the rename.
func (ds *DiskStorage) GetFileName(name string) (string, string) {
	fileName := filepath.Join(ds.Folder(), filepath.FromSlash(name))
	return fileName, fileName + ".tmp-" + strconv.FormatInt(time.Now().UnixNano(), 10)
}
