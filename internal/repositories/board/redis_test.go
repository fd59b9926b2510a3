package board

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	clockMocks "github.com/confbot/boardbot/internal/common/clock/mocks"
	"github.com/confbot/boardbot/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mockCtrl  *gomock.Controller
	mockClock *clockMocks.MockClock
	mr        *miniredis.Miniredis
	client    *redis.Client
	repo      Repository
	testNow   time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	s.testNow = time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC)
	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockClock.EXPECT().Now().Return(s.testNow).AnyTimes()

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
		Clock:       s.mockClock,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
	s.mockCtrl.Finish()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestSetAndGetSlot() {
	key := models.NewSlotKey("plenary", models.SlotNow)

	err := s.repo.SetSlot(context.Background(), &SetSlotInput{
		Key:         key,
		SessionName: "Opening Keynote",
		UpdatedBy:   "alice",
	})
	s.Require().NoError(err)

	record, err := s.repo.GetSlot(context.Background(), &GetSlotInput{Key: key})
	s.Require().NoError(err)
	s.Require().NotNil(record)

	s.Equal(key, record.Key)
	s.Equal("Opening Keynote", record.SessionName)
	s.Equal("alice", record.UpdatedBy)
	s.Equal(s.testNow.Unix(), record.UpdatedAt.Unix())
}

func (s *RedisRepositoryTestSuite) TestGetUnsetSlot() {
	_, err := s.repo.GetSlot(context.Background(), &GetSlotInput{
		Key: models.NewSlotKey("plenary", models.SlotNext),
	})
	s.Require().ErrorIs(err, ErrSlotNotFound)
}

func (s *RedisRepositoryTestSuite) TestSetOverwritesWholesale() {
	key := models.NewSlotKey("plenary", models.SlotNow)

	err := s.repo.SetSlot(context.Background(), &SetSlotInput{
		Key:         key,
		SessionName: "Opening Keynote",
		UpdatedBy:   "alice",
	})
	s.Require().NoError(err)

	err = s.repo.SetSlot(context.Background(), &SetSlotInput{
		Key:         key,
		SessionName: "Closing Remarks",
		UpdatedBy:   "bob",
	})
	s.Require().NoError(err)

	record, err := s.repo.GetSlot(context.Background(), &GetSlotInput{Key: key})
	s.Require().NoError(err)

	// The old value is gone entirely, including its writer identity
	s.Equal("Closing Remarks", record.SessionName)
	s.Equal("bob", record.UpdatedBy)

	// Overwriting must not duplicate the index entry
	snapshot, err := s.repo.Snapshot(context.Background())
	s.Require().NoError(err)
	s.Len(snapshot.Records, 1)
}

func (s *RedisRepositoryTestSuite) TestSetRejectsEmptySessionName() {
	err := s.repo.SetSlot(context.Background(), &SetSlotInput{
		Key:       models.NewSlotKey("plenary", models.SlotNow),
		UpdatedBy: "alice",
	})
	s.Require().Error(err)
}

func (s *RedisRepositoryTestSuite) TestWipe() {
	keys := []models.SlotKey{
		models.NewSlotKey("plenary", models.SlotNow),
		models.NewSlotKey("plenary", models.SlotNext),
		models.NewSlotKey("workshop-a", models.SlotNow),
	}

	for _, key := range keys {
		err := s.repo.SetSlot(context.Background(), &SetSlotInput{
			Key:         key,
			SessionName: "Some Session",
			UpdatedBy:   "alice",
		})
		s.Require().NoError(err)
	}

	err := s.repo.Wipe(context.Background())
	s.Require().NoError(err)

	for _, key := range keys {
		_, err := s.repo.GetSlot(context.Background(), &GetSlotInput{Key: key})
		s.Require().ErrorIs(err, ErrSlotNotFound)
	}

	snapshot, err := s.repo.Snapshot(context.Background())
	s.Require().NoError(err)
	s.Empty(snapshot.Records)
}

func (s *RedisRepositoryTestSuite) TestWipeEmptyBoard() {
	s.Require().NoError(s.repo.Wipe(context.Background()))
}

func (s *RedisRepositoryTestSuite) TestSnapshot() {
	err := s.repo.SetSlot(context.Background(), &SetSlotInput{
		Key:         models.NewSlotKey("plenary", models.SlotNow),
		SessionName: "Opening Keynote",
		UpdatedBy:   "alice",
	})
	s.Require().NoError(err)

	err = s.repo.SetSlot(context.Background(), &SetSlotInput{
		Key:         models.NewSlotKey("workshop-a", models.SlotNext),
		SessionName: "Lightning Talks",
		UpdatedBy:   "bob",
	})
	s.Require().NoError(err)

	snapshot, err := s.repo.Snapshot(context.Background())
	s.Require().NoError(err)
	s.Require().Len(snapshot.Records, 2)

	byKey := make(map[models.SlotKey]*models.SessionRecord)
	for _, record := range snapshot.Records {
		byKey[record.Key] = record
	}

	s.Equal("Opening Keynote", byKey[models.NewSlotKey("plenary", models.SlotNow)].SessionName)
	s.Equal("Lightning Talks", byKey[models.NewSlotKey("workshop-a", models.SlotNext)].SessionName)
}
