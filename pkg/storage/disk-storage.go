package storage

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	"github.com/matst80/slask-shelf/pkg/common/jsoncompat"
	"github.com/pkg/errors"
)

func (p *DiskStorage) create(name string) (*os.File, string, string, error) {
	fileName, tmpFileName := p.GetFileName(name)
	if err := os.MkdirAll(filepath.Dir(fileName), 0o755); err != nil {
		return nil, "", "", errors.Wrap(err, "create storage folder")
	}
	file, err := os.Create(tmpFileName)
	if err != nil {
		return nil, "", "", err
	}
	return file, fileName, tmpFileName, nil
}

func (p *DiskStorage) SaveGzippedJson(data any, name string) error {
	file, fileName, tmpFileName, err := p.create(name)
	if err != nil {
		return err
	}

	zipWriter := gzip.NewWriter(file)
	if err = jsoncompat.NewEncoder(zipWriter).Encode(data); err != nil {
		_ = zipWriter.Close()
		_ = file.Close()
		_ = os.Remove(tmpFileName)
		return err
	}
	if err = zipWriter.Close(); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFileName)
		return err
	}
	if err = file.Close(); err != nil {
		_ = os.Remove(tmpFileName)
		return err
	}
	if err = os.Rename(tmpFileName, fileName); err != nil {
		_ = os.Remove(tmpFileName)
		return err
	}
	return nil
}

func (p *DiskStorage) LoadGzippedJson(data any, name string) error {
	fileName, _ := p.GetFileName(name)
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zipReader.Close()

	err = jsoncompat.NewDecoder(zipReader).Decode(data)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (p *DiskStorage) Remove(name string) error {
	fileName, _ := p.GetFileName(name)
	if err := os.Remove(fileName); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
