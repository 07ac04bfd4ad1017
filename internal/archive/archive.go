// Package archive writes and reads the zip files produced by a backup.
//
// It is a thin layer over github.com/klauspost/compress/zip, a drop-in
// replacement for archive/zip with a faster deflate implementation.
package archive

import (
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/thoreinstein/filesbackup/internal/errors"
)

// ErrClosed is returned when adding to a Writer after Close.
var ErrClosed = errors.New("archive is closed")

// Writer adds entries to a new zip file on disk.
type Writer struct {
	path   string
	file   *os.File
	zw     *zip.Writer
	count  int
	closed bool
}

// Create opens path as a new zip archive. The file is created exclusively:
// Create fails if path already exists.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "creating archive")
	}
	return &Writer{
		path: path,
		file: f,
		zw:   zip.NewWriter(f),
	}, nil
}

// Path returns the archive file path.
func (w *Writer) Path() string {
	return w.path
}

// Count returns the number of entries written so far.
func (w *Writer) Count() int {
	return w.count
}

// AddEmptyDir adds a directory entry. A trailing slash is appended to name
// when missing.
func (w *Writer) AddEmptyDir(name string) error {
	if w.closed {
		return ErrClosed
	}

	hdr := &zip.FileHeader{
		Name:     strings.TrimSuffix(entryName(name), "/") + "/",
		Method:   zip.Store,
		Modified: time.Now(),
	}
	hdr.SetMode(fs.ModeDir | 0o755)

	if _, err := w.zw.CreateHeader(hdr); err != nil {
		return errors.Wrapf(err, "adding directory %s", hdr.Name)
	}
	w.count++
	return nil
}

// AddFile copies the contents of the file at src into the archive as name.
// The entry keeps the source's modification time and permission bits.
func (w *Writer) AddFile(src, name string) error {
	if w.closed {
		return ErrClosed
	}

	f, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "opening %s", src)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.Wrapf(err, "stat %s", src)
	}
	if !info.Mode().IsRegular() {
		return errors.Newf("%s is not a regular file", src)
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return errors.Wrapf(err, "building header for %s", src)
	}
	hdr.Name = entryName(name)
	hdr.Method = zip.Deflate
	if info.Size() == 0 {
		hdr.Method = zip.Store
	}

	dst, err := w.zw.CreateHeader(hdr)
	if err != nil {
		return errors.Wrapf(err, "adding %s", hdr.Name)
	}
	if _, err := io.Copy(dst, f); err != nil {
		return errors.Wrapf(err, "writing %s", hdr.Name)
	}
	w.count++
	return nil
}

// Close writes the central directory and closes the file. It is safe to
// call more than once; only the first call does any work.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	zerr := w.zw.Close()
	ferr := w.file.Close()
	if zerr != nil {
		return errors.Wrapf(zerr, "finishing %s", w.path)
	}
	return errors.Wrapf(ferr, "closing %s", w.path)
}

// Abort closes the archive and removes the partially written file.
func (w *Writer) Abort() error {
	cerr := w.Close()
	if err := os.Remove(w.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, "removing partial archive %s", w.path)
	}
	return cerr
}

// entryName converts name to the forward-slash form zip entries use.
func entryName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	trailing := strings.HasSuffix(name, "/")
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if trailing {
		name += "/"
	}
	return name
}
