package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/immxrtalbeast/roomcast/internal/domain"
	"github.com/immxrtalbeast/roomcast/internal/repository"
	"github.com/immxrtalbeast/roomcast/lib/logger/sl"
)

var (
	ErrUploadUnauthorized = errors.New("invalid room or password")
	ErrFileNotFound       = errors.New("file not found")
	ErrBadFileName        = errors.New("bad file name")
)

// Authenticator gates uploads against the room secret.
type Authenticator interface {
	Authenticate(roomName, secret string) bool
}

// Notifier pushes a file-available event to the room's live connections.
type Notifier interface {
	NotifyFileAvailable(roomName, filename string)
}

// UploadService stores uploaded recordings on disk, indexes their
// metadata and announces them to the room. Storage happens entirely off
// the relay's critical path; the relay only sees the notification.
type UploadService struct {
	recordings repository.RecordingRepository
	auth       Authenticator
	notifier   Notifier
	dir        string
	log        *slog.Logger
}

func NewUploadService(recordings repository.RecordingRepository, auth Authenticator, notifier Notifier, dir string, log *slog.Logger) (*UploadService, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	s := &UploadService{
		recordings: recordings,
		auth:       auth,
		notifier:   notifier,
		dir:        dir,
		log:        log,
	}

	if err := s.rehydrate(context.Background()); err != nil {
		log.Warn("recording index rehydrate failed", sl.Err(err))
	}

	return s, nil
}

// Save authenticates the upload, writes the file under its room-prefixed
// name and announces it. The stored name is {room}_{unix_ms}_{original}.
func (s *UploadService) Save(ctx context.Context, roomName, secret, originalName string, src io.Reader) (*domain.Recording, error) {
	const op = "service.upload.save"
	log := s.log.With(slog.String("op", op), slog.String("room", roomName))

	if roomName == "" || secret == "" {
		return nil, ErrInvalidRequest
	}
	if !s.auth.Authenticate(roomName, secret) {
		log.Info("upload rejected")
		return nil, ErrUploadUnauthorized
	}

	base := filepath.Base(originalName)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return nil, ErrBadFileName
	}

	storedName := fmt.Sprintf("%s_%d_%s", roomName, time.Now().UnixMilli(), base)
	if storedName != filepath.Base(storedName) {
		return nil, ErrBadFileName
	}

	path := filepath.Join(s.dir, storedName)
	dst, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	rec := domain.NewRecording(roomName, storedName, base, size)
	if err := s.recordings.Create(ctx, rec); err != nil {
		log.Error("failed to index recording", sl.Err(err))
		return nil, err
	}

	s.notifier.NotifyFileAvailable(roomName, storedName)

	log.Info("file saved",
		slog.String("filename", storedName),
		slog.Int64("size", size),
	)
	return rec, nil
}

// List returns the room's recordings, newest first.
func (s *UploadService) List(ctx context.Context, roomName string) ([]*domain.Recording, error) {
	recs, err := s.recordings.ListByRoom(ctx, roomName)
	if err != nil {
		return nil, err
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].StoredName > recs[j].StoredName
	})
	return recs, nil
}

// Resolve maps a stored file name to its on-disk path. Names carrying
// path separators are rejected before touching the filesystem.
func (s *UploadService) Resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", ErrBadFileName
	}

	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrFileNotFound
	}
	return path, nil
}

// rehydrate rebuilds the metadata index from files already on disk so a
// restart does not lose the listing when running without a database.
func (s *UploadService) rehydrate(ctx context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		parts := strings.SplitN(name, "_", 3)
		if len(parts) != 3 {
			continue
		}

		if _, err := s.recordings.GetByStoredName(ctx, name); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrRecordingNotFound) {
			return err
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		rec := domain.NewRecording(parts[0], name, parts[2], info.Size())
		rec.UploadedAt = info.ModTime().UTC()

		if err := s.recordings.Create(ctx, rec); err != nil {
			if errors.Is(err, repository.ErrRecordingExists) {
				continue
			}
			return err
		}
	}
	return nil
}
