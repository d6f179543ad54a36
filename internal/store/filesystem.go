package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"goodgood/internal/fs"
	"goodgood/internal/gg"
	"goodgood/internal/model"
)

const (
	dailyDirName    = "daily"
	indexFileName   = "index.json"
	latestFileName  = "latest.json"
	recordExtension = ".json"
)

// FileSystemStore keeps the daily records as JSON files:
//
//	<root>/
//	  daily/
//	    <date>.json   (one record per date)
//	  index.json      ({"dates": [...]}, ascending)
//	  latest.json     ({"date": "..."})
//
// Every file is committed with fs.WriteFileAtomic. A single writer per date
// is assumed; concurrent readers never observe a partial file.
type FileSystemStore struct {
	root     string
	dailyDir string
}

// NewFileSystemStore creates a store rooted at the given directory,
// creating the directory structure if needed.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	dailyDir := filepath.Join(absRoot, dailyDirName)
	if err := os.MkdirAll(dailyDir, 0755); err != nil {
		return nil, &gg.StorageError{Op: "mkdir", Path: dailyDir, Err: err}
	}
	return &FileSystemStore{root: absRoot, dailyDir: dailyDir}, nil
}

// Root returns the absolute data directory.
func (s *FileSystemStore) Root() string {
	return s.root
}

func (s *FileSystemStore) recordPath(date string) (string, error) {
	if _, err := model.ParseDate(date); err != nil {
		return "", err
	}
	return filepath.Join(s.dailyDir, date+recordExtension), nil
}

// Exists reports whether a record file for date is present.
func (s *FileSystemStore) Exists(date string) (bool, error) {
	path, err := s.recordPath(date)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, &gg.StorageError{Op: "stat", Path: path, Err: err}
	}
	return true, nil
}

// Put writes the record for date as pretty-printed JSON.
func (s *FileSystemStore) Put(date string, record *model.DailyRecord) error {
	path, err := s.recordPath(date)
	if err != nil {
		return err
	}
	return writeJSON("put", path, record)
}

// Get reads the record for date. Returns nil if none exists.
func (s *FileSystemStore) Get(date string) (*model.DailyRecord, error) {
	path, err := s.recordPath(date)
	if err != nil {
		return nil, err
	}
	var rec model.DailyRecord
	found, err := readJSON("get", path, &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

// AppendToIndex adds date to index.json. An absent index counts as empty;
// any other read failure is returned. Nothing is written when date is
// already indexed.
func (s *FileSystemStore) AppendToIndex(date string) error {
	if _, err := model.ParseDate(date); err != nil {
		return err
	}
	idx, err := s.Index()
	if err != nil {
		return err
	}
	if idx.Contains(date) {
		return nil
	}
	idx.Dates = normalizeDates(append(idx.Dates, date))
	return writeJSON("append-index", filepath.Join(s.root, indexFileName), idx)
}

// Index reads index.json. A missing file yields an empty index.
func (s *FileSystemStore) Index() (*model.DateIndex, error) {
	idx := &model.DateIndex{Dates: []string{}}
	if _, err := readJSON("read-index", filepath.Join(s.root, indexFileName), idx); err != nil {
		return nil, err
	}
	if idx.Dates == nil {
		idx.Dates = []string{}
	}
	return idx, nil
}

// SetLatest overwrites latest.json with date.
func (s *FileSystemStore) SetLatest(date string) error {
	if _, err := model.ParseDate(date); err != nil {
		return err
	}
	return writeJSON("set-latest", filepath.Join(s.root, latestFileName), &model.LatestPointer{Date: date})
}

// Latest reads latest.json. Returns nil if it has not been written yet.
func (s *FileSystemStore) Latest() (*model.LatestPointer, error) {
	var p model.LatestPointer
	found, err := readJSON("read-latest", filepath.Join(s.root, latestFileName), &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// Dates lists the dates with a record file, ascending. Files whose name is
// not a valid date are ignored.
func (s *FileSystemStore) Dates() ([]string, error) {
	entries, err := os.ReadDir(s.dailyDir)
	if err != nil {
		return nil, &gg.StorageError{Op: "list", Path: s.dailyDir, Err: err}
	}
	dates := []string{}
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), recordExtension) {
			continue
		}
		date := strings.TrimSuffix(e.Name(), recordExtension)
		if _, err := model.ParseDate(date); err != nil {
			continue
		}
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates, nil
}

// Rebuild rewrites index.json from the record files and points latest.json
// at the newest date. It repairs an index or pointer left behind by a run
// that stopped between steps. With no records left the pointer is removed.
func (s *FileSystemStore) Rebuild() error {
	dates, err := s.Dates()
	if err != nil {
		return err
	}
	if err := writeJSON("rebuild-index", filepath.Join(s.root, indexFileName), &model.DateIndex{Dates: dates}); err != nil {
		return err
	}
	if len(dates) == 0 {
		path := filepath.Join(s.root, latestFileName)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return &gg.StorageError{Op: "rebuild-latest", Path: path, Err: err}
		}
		return nil
	}
	return s.SetLatest(dates[len(dates)-1])
}

// normalizeDates sorts dates ascending and drops duplicates.
func normalizeDates(dates []string) []string {
	sorted := append([]string{}, dates...)
	sort.Strings(sorted)
	out := sorted[:0]
	for i, d := range sorted {
		if i > 0 && d == sorted[i-1] {
			continue
		}
		out = append(out, d)
	}
	return out
}

func encodeJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func writeJSON(op, path string, v any) error {
	data, err := encodeJSON(v)
	if err != nil {
		return &gg.StorageError{Op: op, Path: path, Err: fmt.Errorf("encoding: %w", err)}
	}
	if _, err := fs.WriteFileAtomic(path, bytes.NewReader(data), 0644); err != nil {
		return &gg.StorageError{Op: op, Path: path, Err: err}
	}
	return nil
}

// readJSON decodes path into v. found is false when the file does not exist.
func readJSON(op, path string, v any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, &gg.StorageError{Op: op, Path: path, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, &gg.StorageError{Op: op, Path: path, Err: fmt.Errorf("decoding: %w", err)}
	}
	return true, nil
}

// Compile-time check that FileSystemStore implements gg.Store interface
var _ gg.Store = (*FileSystemStore)(nil)
