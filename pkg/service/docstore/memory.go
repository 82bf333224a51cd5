package docstore

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/horai/pkg/domain/types"
)

// Memory keeps documents in process memory, for development and tests.
type Memory struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{
		docs: make(map[string][]byte),
	}
}

func (s *Memory) Put(ctx context.Context, periodID types.PeriodID, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", goerr.Wrap(err, "failed to read closing document",
			goerr.V("period_id", periodID))
	}

	ref := "mem://" + string(periodID) + "/" + filename

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[ref] = buf.Bytes()

	return ref, nil
}

// Get returns a stored document by reference, for test assertions.
func (s *Memory) Get(ref string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[ref]
	return doc, ok
}
