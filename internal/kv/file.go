package kv

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nikmy/klaro/pkg/errors"
	"github.com/nikmy/klaro/pkg/logger"
)

// File serves reads and writes from memory and periodically
// persists the whole key space as a JSON snapshot.
type File struct {
	*Memory

	fileName string
	interval time.Duration
	logger   logger.Logger

	dirty  atomic.Bool
	saveMu sync.Mutex
}

func NewFile(cfg FileConfig, log logger.Logger) (*File, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}

	s := &File{
		Memory:   NewMemory(),
		fileName: cfg.Path,
		interval: cfg.Interval,
		logger:   log.With("kv_file"),
	}

	data, err := s.readSnapshot()
	if err != nil {
		return nil, err
	}
	s.Memory.restore(data)

	return s, nil
}

func (s *File) Put(ctx context.Context, key string, value []byte) error {
	err := s.Memory.Put(ctx, key, value)
	if err == nil {
		s.dirty.Store(true)
	}
	return err
}

func (s *File) Delete(ctx context.Context, key string) (bool, error) {
	existed, err := s.Memory.Delete(ctx, key)
	if existed {
		s.dirty.Store(true)
	}
	return existed, err
}

// Run flushes the snapshot every interval until ctx is done,
// then makes a final flush.
func (s *File) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := s.flush()
			if err != nil {
				s.logger.Warn(err)
			}
		case <-ctx.Done():
			return s.flush()
		}
	}
}

func (s *File) Close(context.Context) error {
	return s.flush()
}

func (s *File) flush() error {
	if !s.dirty.Swap(false) {
		return nil
	}

	err := s.saveData()
	if err != nil {
		s.dirty.Store(true)
	}
	return err
}

func (s *File) saveData() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.logger.Debugf("saving data to %s", s.fileName)

	bytes, err := json.Marshal(s.Memory.snapshot())
	if err != nil {
		return errors.WrapFail(err, "marshal snapshot")
	}

	dir := filepath.Dir(s.fileName)
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return errors.WrapFailf(err, "create directory %s", dir)
	}

	tmp := s.fileName + ".tmp"
	err = os.WriteFile(tmp, bytes, 0o644)
	if err != nil {
		return errors.WrapFailf(err, "write %s", tmp)
	}

	return errors.WrapFailf(os.Rename(tmp, s.fileName), "replace %s", s.fileName)
}

func (s *File) readSnapshot() (map[string][]byte, error) {
	s.logger.Debugf("reading data from %s", s.fileName)

	bytes, err := os.ReadFile(s.fileName)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapFailf(err, "read %s", s.fileName)
	}

	var data map[string][]byte
	err = json.Unmarshal(bytes, &data)
	if err != nil {
		return nil, errors.WrapFailf(err, "parse snapshot %s", s.fileName)
	}
	return data, nil
}
