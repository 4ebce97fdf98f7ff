package progress

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	recordObject   = "run"
	recordProperty = "record"
)

// Record is the saved run history. It survives across sessions.
type Record struct {
	DeepestFloor int   `yaml:"deepest_floor"`
	Runs         int   `yaml:"runs"`
	LastSeed     int64 `yaml:"last_seed"`
}

// Store persists the run record. A nil manager degrades to memory-only
// storage, which keeps the game playable on platforms without a data dir.
type Store struct {
	manager *gdata.Manager
	record  Record
}

func Open(appName string) *Store {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("progress: open store: %v (memory only)", err)
		manager = nil
	}

	s := &Store{manager: manager}
	if err := s.load(); err != nil {
		log.Printf("progress: load record: %v (starting fresh)", err)
		s.record = Record{}
	}
	return s
}

func (s *Store) Record() Record {
	return s.record
}

// RecordRun updates the saved record after a run ends on the given floor.
func (s *Store) RecordRun(floor int, seed int64) error {
	s.record.Runs++
	s.record.LastSeed = seed
	if floor > s.record.DeepestFloor {
		s.record.DeepestFloor = floor
	}
	return s.save()
}

func (s *Store) load() error {
	if s.manager == nil || !s.manager.ObjectPropExists(recordObject, recordProperty) {
		return nil
	}

	data, err := s.manager.LoadObjectProp(recordObject, recordProperty)
	if err != nil {
		return fmt.Errorf("progress: load: %w", err)
	}

	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("progress: unmarshal: %w", err)
	}
	s.record = rec
	return nil
}

func (s *Store) save() error {
	if s.manager == nil {
		return nil
	}

	data, err := yaml.Marshal(&s.record)
	if err != nil {
		return fmt.Errorf("progress: marshal: %w", err)
	}
	if err := s.manager.SaveObjectProp(recordObject, recordProperty, data); err != nil {
		return fmt.Errorf("progress: save: %w", err)
	}
	return nil
}
