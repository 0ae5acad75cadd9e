package app

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

var streetHeader = []string{"street", "day"}

// StreetStore holds the street schedule loaded from CSV.
// Edits land in a tmp file until they are committed or reverted.
type StreetStore struct {
	fs   afero.Fs
	path string
	now  func() time.Time

	mu      sync.RWMutex
	streets []Street
}

// NewStreetStore creates a store for the CSV at path
func NewStreetStore(fs afero.Fs, path string) *StreetStore {
	return &StreetStore{fs: fs, path: path, now: time.Now}
}

func (s *StreetStore) tmpPath() string {
	return strings.TrimSuffix(s.path, filepath.Ext(s.path)) + TmpSuffix
}

// Load loads the street schedule from the main file
func (s *StreetStore) Load() error {
	return s.loadFromFile(s.path)
}

// LoadWithTmpCheck loads unsaved edits from the tmp file if there are any
func (s *StreetStore) LoadWithTmpCheck() error {
	if s.HasTmp() {
		log.Printf("⚠️  Found temporary street schedule: %s (loading unsaved changes)", s.tmpPath())
		return s.loadFromFile(s.tmpPath())
	}
	return s.Load()
}

func (s *StreetStore) loadFromFile(filename string) error {
	streets, err := s.readStreets(filename)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.streets = streets
	s.mu.Unlock()

	log.Printf("Loaded %d streets from %s", len(streets), filename)
	return nil
}

// readStreets parses filename without touching the in-memory list
func (s *StreetStore) readStreets(filename string) ([]Street, error) {
	file, err := s.fs.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("Error closing street schedule: %v", err)
		}
	}()

	streets, err := parseStreets(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return streets, nil
}

// parseStreets reads street,day rows after a header line
func parseStreets(r io.Reader) ([]Street, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var streets []Street
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 {
			continue
		}
		if len(record) < 2 || strings.TrimSpace(record[0]) == "" {
			continue
		}

		day, _, err := ParseCollectionDay(record[1])
		if err != nil {
			log.Printf("Warning: skipping street %q on line %d: %v", record[0], line, err)
			continue
		}
		streets = append(streets, Street{Name: strings.TrimSpace(record[0]), Day: day})
	}
	return streets, nil
}

func encodeStreets(streets []Street) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(streetHeader); err != nil {
		return nil, err
	}
	for _, st := range streets {
		if err := writer.Write([]string{st.Name, st.Day}); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	return buf.Bytes(), writer.Error()
}

// List returns all streets sorted by name
func (s *StreetStore) List() []Street {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Street, len(s.streets))
	copy(out, s.streets)
	SortStreetsByName(out)
	return out
}

// Lookup finds a street by exact name, ignoring case
func (s *StreetStore) Lookup(name string) (Street, bool) {
	name = strings.TrimSpace(name)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.streets {
		if strings.EqualFold(st.Name, name) {
			return st, true
		}
	}
	return Street{}, false
}

// Add inserts or updates a street and saves the tmp file.
// It reports false when the street already had that day.
func (s *StreetStore) Add(name, day string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, fmt.Errorf("street name is empty")
	}
	day, _, err := ParseCollectionDay(day)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, st := range s.streets {
		if strings.EqualFold(st.Name, name) {
			if st.Day == day {
				return false, nil
			}
			s.streets[i].Day = day
			return true, s.saveTmpLocked()
		}
	}

	s.streets = append(s.streets, Street{Name: name, Day: day})
	return true, s.saveTmpLocked()
}

// Delete removes a street and saves the tmp file
func (s *StreetStore) Delete(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.streets[:0:0]
	for _, st := range s.streets {
		if !strings.EqualFold(st.Name, strings.TrimSpace(name)) {
			kept = append(kept, st)
		}
	}
	if len(kept) == len(s.streets) {
		return false, nil
	}
	s.streets = kept
	return true, s.saveTmpLocked()
}

// saveTmpLocked writes the current streets to the tmp file (caller must hold lock)
func (s *StreetStore) saveTmpLocked() error {
	data, err := encodeStreets(s.streets)
	if err != nil {
		return err
	}
	return afero.WriteFile(s.fs, s.tmpPath(), data, FilePermissions)
}

// Commit backs up the main file and makes the tmp file the new main file
func (s *StreetStore) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hasTmp, err := s.tmpExists()
	if err != nil {
		return err
	}
	if !hasTmp {
		return fmt.Errorf("no temporary changes to commit")
	}

	backupDirPath := filepath.Join(filepath.Dir(s.path), BackupDir)
	if err := s.fs.MkdirAll(backupDirPath, 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", s.path, err)
	}
	if exists {
		backupFile := filepath.Join(backupDirPath,
			fmt.Sprintf("%d_%s%s", s.now().Unix(), filepath.Base(s.path), BackupSuffix))
		if err := s.fs.Rename(s.path, backupFile); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
		log.Printf("✅ Backup created: %s", backupFile)
	}

	if err := s.fs.Rename(s.tmpPath(), s.path); err != nil {
		return fmt.Errorf("failed to commit changes: %w", err)
	}

	log.Printf("✅ Changes committed to %s", s.path)
	return nil
}

// Revert discards the tmp file and reloads the main file.
// The lock is held throughout so an edit cannot land between the remove and the reload.
func (s *StreetStore) Revert() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hasTmp, err := s.tmpExists()
	if err != nil {
		return err
	}
	if !hasTmp {
		return fmt.Errorf("no temporary changes to revert")
	}

	if err := s.fs.Remove(s.tmpPath()); err != nil {
		return fmt.Errorf("failed to remove tmp file: %w", err)
	}

	streets, err := s.readStreets(s.path)
	if err != nil {
		return fmt.Errorf("failed to reload street schedule: %w", err)
	}
	s.streets = streets

	log.Printf("✅ Changes reverted, reloaded %d streets from %s", len(streets), s.path)
	return nil
}

// HasTmp checks if unsaved edits exist
func (s *StreetStore) HasTmp() bool {
	exists, err := s.tmpExists()
	return err == nil && exists
}

func (s *StreetStore) tmpExists() (bool, error) {
	exists, err := afero.Exists(s.fs, s.tmpPath())
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", s.tmpPath(), err)
	}
	return exists, nil
}

// SortStreetsByName sorts streets alphabetically, ignoring case
func SortStreetsByName(streets []Street) {
	sort.Slice(streets, func(i, j int) bool {
		return strings.ToLower(streets[i].Name) < strings.ToLower(streets[j].Name)
	})
}
