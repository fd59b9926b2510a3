package publisher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/confbot/boardbot/internal/models"
	"github.com/stretchr/testify/suite"
)

// fakeWriter records writes and can be told to fail a number of times
type fakeWriter struct {
	mu        sync.Mutex
	failures  int
	writes    []string
	clearAlls int
}

func (w *fakeWriter) WriteCell(ctx context.Context, cellRange, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.failures > 0 {
		w.failures--
		return errors.New("surface unavailable")
	}

	w.writes = append(w.writes, fmt.Sprintf("%s=%s", cellRange, value))
	return nil
}

func (w *fakeWriter) ClearAll(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.failures > 0 {
		w.failures--
		return errors.New("surface unavailable")
	}

	w.clearAlls++
	return nil
}

func (w *fakeWriter) snapshotWrites() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.writes...)
}

func (w *fakeWriter) clearAllCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.clearAlls
}

// fixedUUID hands out sequential ids
type fixedUUID struct {
	mu sync.Mutex
	n  int
}

func (u *fixedUUID) NewUUID() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.n++
	return fmt.Sprintf("job-%d", u.n)
}

type PublisherServiceTestSuite struct {
	suite.Suite
	writer  *fakeWriter
	cellMap CellMap
	svc     *service
	ctx     context.Context
}

func (s *PublisherServiceTestSuite) SetupTest() {
	s.writer = &fakeWriter{}
	s.cellMap = CellMap{
		"plenary": {
			models.SlotNow:  "Board!B2",
			models.SlotNext: "Board!C2",
		},
		"workshop-a": {
			models.SlotNow:  "Board!B3",
			models.SlotNext: "Board!C3",
		},
	}
	s.ctx = context.Background()

	svc, err := NewService(&Config{
		Writer:         s.writer,
		CellMap:        s.cellMap,
		QueueSize:      8,
		MaxElapsedTime: 10 * time.Second,
		WriteTimeout:   time.Second,
		UUIDGenerator:  &fixedUUID{},
	})
	s.Require().NoError(err)
	s.svc = svc
	s.svc.Start()
}

func (s *PublisherServiceTestSuite) TearDownTest() {
	s.svc.Stop()
}

func TestPublisherServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PublisherServiceTestSuite))
}

// waitFor polls until the condition holds or the deadline passes
func (s *PublisherServiceTestSuite) waitFor(cond func() bool) {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	s.FailNow("condition never became true")
}

func (s *PublisherServiceTestSuite) TestPublishCellWrites() {
	err := s.svc.PublishCell(s.ctx, &PublishCellInput{
		Room:        "plenary",
		Slot:        models.SlotNow,
		SessionName: "Opening Keynote",
	})
	s.Require().NoError(err)

	s.waitFor(func() bool {
		return len(s.writer.snapshotWrites()) == 1
	})
	s.Equal([]string{"Board!B2=Opening Keynote"}, s.writer.snapshotWrites())
}

func (s *PublisherServiceTestSuite) TestPublishRetriesTransientFailure() {
	s.writer.failures = 2

	err := s.svc.PublishCell(s.ctx, &PublishCellInput{
		Room:        "workshop-a",
		Slot:        models.SlotNext,
		SessionName: "Lightning Talks",
	})
	s.Require().NoError(err)

	s.waitFor(func() bool {
		return len(s.writer.snapshotWrites()) == 1
	})
	s.Equal([]string{"Board!C3=Lightning Talks"}, s.writer.snapshotWrites())
}

func (s *PublisherServiceTestSuite) TestPublishSerializesWrites() {
	for i, name := range []string{"First", "Second", "Third"} {
		slot := models.SlotNow
		if i%2 == 1 {
			slot = models.SlotNext
		}
		err := s.svc.PublishCell(s.ctx, &PublishCellInput{
			Room:        "plenary",
			Slot:        slot,
			SessionName: name,
		})
		s.Require().NoError(err)
	}

	s.waitFor(func() bool {
		return len(s.writer.snapshotWrites()) == 3
	})

	// One worker, one queue: writes land in submission order
	s.Equal([]string{
		"Board!B2=First",
		"Board!C2=Second",
		"Board!B2=Third",
	}, s.writer.snapshotWrites())
}

func (s *PublisherServiceTestSuite) TestUnmappedRoomIsSkipped() {
	err := s.svc.PublishCell(s.ctx, &PublishCellInput{
		Room:        "hallway",
		Slot:        models.SlotNow,
		SessionName: "Impromptu BoF",
	})
	s.Require().NoError(err)

	// Give the worker a moment; nothing should be written
	time.Sleep(50 * time.Millisecond)
	s.Empty(s.writer.snapshotWrites())
}

func (s *PublisherServiceTestSuite) TestClearAll() {
	err := s.svc.ClearAll(s.ctx)
	s.Require().NoError(err)

	s.waitFor(func() bool {
		return s.writer.clearAllCount() == 1
	})
}

func (s *PublisherServiceTestSuite) TestEnqueueAfterStopFails() {
	s.svc.Stop()

	err := s.svc.PublishCell(s.ctx, &PublishCellInput{
		Room:        "plenary",
		Slot:        models.SlotNow,
		SessionName: "Too Late",
	})
	s.Require().ErrorIs(err, ErrStopped)
}

func TestQueueFull(t *testing.T) {
	writer := &fakeWriter{}
	cellMap := CellMap{
		"plenary": {models.SlotNow: "Board!B2"},
	}

	svc, err := NewService(&Config{
		Writer:        writer,
		CellMap:       cellMap,
		QueueSize:     1,
		UUIDGenerator: &fixedUUID{},
	})
	if err != nil {
		t.Fatal(err)
	}
	// Worker never started: the queue fills after one job
	input := &PublishCellInput{
		Room:        "plenary",
		Slot:        models.SlotNow,
		SessionName: "Keynote",
	}

	if err := svc.PublishCell(context.Background(), input); err != nil {
		t.Fatalf("first enqueue failed: %v", err)
	}

	if err := svc.PublishCell(context.Background(), input); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestCellMapResolve(t *testing.T) {
	cellMap := CellMap{
		"plenary": {models.SlotNow: "Board!B2"},
	}

	cellRange, ok := cellMap.Resolve("plenary", models.SlotNow)
	if !ok || cellRange != "Board!B2" {
		t.Fatalf("unexpected resolve result: %q %v", cellRange, ok)
	}

	if _, ok := cellMap.Resolve("plenary", models.SlotNext); ok {
		t.Fatal("expected unmapped slot to miss")
	}

	if _, ok := cellMap.Resolve("hallway", models.SlotNow); ok {
		t.Fatal("expected unmapped room to miss")
	}
}
