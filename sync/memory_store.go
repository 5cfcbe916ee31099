package sync

import (
	"context"
	"fmt"
	stdsync "sync"

	"github.com/jobsync/jobsync/common/gerror"
	"github.com/jobsync/jobsync/common/models"
)

// RecordedCall is one Store operation observed by a MemoryStore.
type RecordedCall struct {
	Operation Operation
	Name      models.JobName
	Config    []byte
}

// MemoryStore is an in-memory Store used as a test double and to back dry
// runs. It records every call in order and can be seeded with pre-existing
// jobs or primed to fail specific operations.
type MemoryStore struct {
	mu      stdsync.Mutex
	configs map[models.JobName][]byte
	calls   []RecordedCall

	// ErrFor, when set, is consulted before each operation and any non-nil
	// error it returns is reported as that operation's outcome.
	ErrFor func(op Operation, name models.JobName) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		configs: make(map[models.JobName][]byte),
	}
}

// Seed registers a job as already existing on the server.
func (s *MemoryStore) Seed(name models.JobName, config []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[name] = config
}

func (s *MemoryStore) Exists(ctx context.Context, name models.JobName) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(OperationExists, name, nil)
	if err := s.errFor(OperationExists, name); err != nil {
		return false, err
	}
	_, ok := s.configs[name]
	return ok, nil
}

func (s *MemoryStore) Create(ctx context.Context, name models.JobName, config []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(OperationCreate, name, config)
	if err := s.errFor(OperationCreate, name); err != nil {
		return err
	}
	if _, ok := s.configs[name]; ok {
		return gerror.NewErrAlreadyExists(fmt.Sprintf("error job %q already exists", name))
	}
	s.configs[name] = config
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, name models.JobName, config []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(OperationUpdate, name, config)
	if err := s.errFor(OperationUpdate, name); err != nil {
		return err
	}
	if _, ok := s.configs[name]; !ok {
		return gerror.NewErrNotFound(fmt.Sprintf("error job %q does not exist", name))
	}
	s.configs[name] = config
	return nil
}

// Calls returns every operation performed against the store, in order.
func (s *MemoryStore) Calls() []RecordedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedCall, len(s.calls))
	copy(out, s.calls)
	return out
}

// Config returns the stored configuration document for the named job.
func (s *MemoryStore) Config(name models.JobName) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	config, ok := s.configs[name]
	return config, ok
}

func (s *MemoryStore) record(op Operation, name models.JobName, config []byte) {
	s.calls = append(s.calls, RecordedCall{Operation: op, Name: name, Config: config})
}

func (s *MemoryStore) errFor(op Operation, name models.JobName) error {
	if s.ErrFor == nil {
		return nil
	}
	return s.ErrFor(op, name)
}
