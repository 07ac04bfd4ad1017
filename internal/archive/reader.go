package archive

import (
	"io"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/thoreinstein/filesbackup/internal/errors"
)

// Entry describes one entry of an archive.
type Entry struct {
	Name     string
	Size     uint64
	Modified time.Time
	IsDir    bool
}

// List returns the entries of the archive at path in stored order.
func List(path string) ([]Entry, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read `%s`", path)
	}
	defer r.Close()

	entries := make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		entries = append(entries, Entry{
			Name:     f.Name,
			Size:     f.UncompressedSize64,
			Modified: f.Modified,
			IsDir:    f.FileInfo().IsDir(),
		})
	}
	return entries, nil
}

// Names returns only the entry names of the archive at path.
func Names(path string) ([]string, error) {
	entries, err := List(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names, nil
}

// ReadFile returns the contents of the entry called name.
func ReadFile(path, name string) ([]byte, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read `%s`", path)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "opening entry %s", name)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		return data, errors.Wrapf(err, "reading entry %s", name)
	}
	return nil, errors.Newf("entry %s not found in %s", name, path)
}
