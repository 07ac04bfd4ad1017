package backup

import (
	"log/slog"

	"github.com/thoreinstein/filesbackup/internal/archive"
	"github.com/thoreinstein/filesbackup/internal/errors"
	"github.com/thoreinstein/filesbackup/internal/logging"
)

// archiveWriter is the part of archive.Writer the builder uses.
type archiveWriter interface {
	AddEmptyDir(name string) error
	AddFile(src, name string) error
	Close() error
	Abort() error
}

// Manager creates backup archives.
type Manager struct {
	logger    *slog.Logger
	listeners []Listener

	// openArchive creates the target exclusively.
	openArchive func(path string) (archiveWriter, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithListener registers a listener for archive lifecycle events.
// Listeners run in registration order.
func WithListener(l Listener) Option {
	return func(m *Manager) {
		if l != nil {
			m.listeners = append(m.listeners, l)
		}
	}
}

// NewManager creates a new backup Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		logger: logging.NewDiscard(),
		openArchive: func(path string) (archiveWriter, error) {
			return archive.Create(path)
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SelectFiles is SelectFiles with the Manager's logger.
func (m *Manager) SelectFiles(source string, opts Options) ([]FileEntry, error) {
	return selectFiles(source, opts, m.logger)
}

// Create writes the backup described by req and returns the target path.
//
// The target must not exist and its directory must be writable. Entries are
// written in order: the root folder named after the source, then every
// selected file. If anything fails after the archive is opened, the partial
// archive is removed and no EventArchiveClosed is emitted.
func (m *Manager) Create(req Request) (string, error) {
	req, err := NewRequest(req.Source, req.Target, req.Options)
	if err != nil {
		return "", err
	}

	files, err := m.SelectFiles(req.Source, req.Options)
	if err != nil {
		return "", err
	}

	if err := checkTarget(req.Target); err != nil {
		return "", err
	}

	w, err := m.openArchive(req.Target)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "unable to create `%s`", req.Target), ErrArchiveOpenFailed)
	}
	m.logger.Debug("opened archive", "target", req.Target)
	m.emit(Event{Kind: EventArchiveOpened, Path: req.Target})

	if err := m.write(w, req, files); err != nil {
		if abortErr := w.Abort(); abortErr != nil {
			m.logger.Warn("failed to remove partial archive", "target", req.Target, "error", abortErr)
		}
		return "", errors.Mark(errors.Wrapf(err, "unable to write `%s`", req.Target), ErrArchiveWriteFailed)
	}

	m.logger.Info("backup created", "source", req.Source, "target", req.Target, "files", len(files))
	m.emit(Event{Kind: EventArchiveClosed, Path: req.Target})
	return req.Target, nil
}

// write adds the root folder and files, then finalizes the archive.
func (m *Manager) write(w archiveWriter, req Request, files []FileEntry) error {
	root := req.RootName()
	if err := w.AddEmptyDir(root); err != nil {
		return err
	}
	m.emit(Event{Kind: EventFileAdded, Path: root})

	for _, f := range files {
		if err := w.AddFile(f.Path, f.ArchivePath); err != nil {
			return err
		}
		m.emit(Event{Kind: EventFileAdded, Path: f.ArchivePath})
	}

	return w.Close()
}

func (m *Manager) emit(e Event) {
	for _, l := range m.listeners {
		l(e)
	}
}
