package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vuthy55/roomledger/internal/apperrors"
	"github.com/vuthy55/roomledger/internal/core/domain"
	portssvc "github.com/vuthy55/roomledger/internal/core/ports/services"
	"github.com/vuthy55/roomledger/internal/dto"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	env *testEnv
	ctx context.Context
}

func (s *ReconciliationServiceTestSuite) SetupTest() {
	s.env = newTestEnv()
	s.ctx = context.Background()
}

func (s *ReconciliationServiceTestSuite) TestNeverStarted_FullRefund() {
	_, err := s.env.seedUser("alice", 100)
	s.Require().NoError(err)

	room, err := s.env.rooms.CreateRoom(s.ctx, "alice", dto.CreateRoomRequest{
		Topic:           "standup",
		DurationMinutes: 30,
	})
	s.Require().NoError(err)
	s.Equal(int64(30), room.PrepaidCost)

	reconciler := s.env.newReconciler(time.Now().UTC())
	s.Require().NoError(reconciler.CloseAndReconcile(s.ctx, room.RoomID))

	closed, err := s.env.rooms.GetRoom(s.ctx, room.RoomID)
	s.Require().NoError(err)
	s.Equal(domain.RoomClosed, closed.Status)

	account, err := s.env.ledger.GetAccountByUserID(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(int64(100), account.Balance)

	entries := s.env.store.EntriesForRoom(room.RoomID)
	s.Require().Len(entries, 2)
	s.Equal(domain.EntryRefund, entries[1].Kind)
	s.Equal(int64(30), entries[1].Amount)
	s.Contains(entries[1].Description, "without activity")
}

func (s *ReconciliationServiceTestSuite) TestShorterSession_RefundsDifference() {
	_, err := s.env.seedUser("alice", 100)
	s.Require().NoError(err)
	_, err = s.env.seedUser("bob", 0)
	s.Require().NoError(err)

	// 15 planned minutes for two people at rate 1: prepaid hold of 30.
	room, err := s.env.rooms.CreateRoom(s.ctx, "alice", dto.CreateRoomRequest{
		Topic:           "standup",
		DurationMinutes: 15,
		InvitedIDs:      []string{"bob"},
		StartNow:        true,
	})
	s.Require().NoError(err)
	s.Equal(int64(30), room.PrepaidCost)

	_, err = s.env.presence.Join(s.ctx, room.RoomID, "alice")
	s.Require().NoError(err)
	_, err = s.env.presence.Join(s.ctx, room.RoomID, "bob")
	s.Require().NoError(err)

	// 185 seconds of session bill as 4 minutes: 4 x 2 x 1 = 8 actual cost.
	reconciler := s.env.newReconciler(room.FirstActivityAt.Add(185 * time.Second))
	s.Require().NoError(reconciler.CloseAndReconcile(s.ctx, room.RoomID))

	account, err := s.env.ledger.GetAccountByUserID(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(int64(100-30+22), account.Balance)

	entries := s.env.store.EntriesForRoom(room.RoomID)
	s.Require().Len(entries, 2)
	s.Equal(domain.EntryRefund, entries[1].Kind)
	s.Equal(int64(22), entries[1].Amount)

	s.env.publisher.AssertCalled(s.T(), "Publish", mock.Anything, portssvc.TopicRoomClosed, mock.Anything)
}

func (s *ReconciliationServiceTestSuite) TestProration_RoundsUpToWholeMinutes() {
	s.env.store.SetSetting("rate_per_person_per_minute", "2")

	_, err := s.env.seedUser("alice", 100)
	s.Require().NoError(err)
	_, err = s.env.seedUser("bob", 0)
	s.Require().NoError(err)
	_, err = s.env.seedUser("carol", 0)
	s.Require().NoError(err)

	// 5 planned minutes, three people, rate 2: prepaid hold of 30.
	room, err := s.env.rooms.CreateRoom(s.ctx, "alice", dto.CreateRoomRequest{
		Topic:           "triage",
		DurationMinutes: 5,
		InvitedIDs:      []string{"bob", "carol"},
		StartNow:        true,
	})
	s.Require().NoError(err)
	s.Equal(int64(30), room.PrepaidCost)

	for _, userID := range []string{"alice", "bob", "carol"} {
		_, err = s.env.presence.Join(s.ctx, room.RoomID, userID)
		s.Require().NoError(err)
	}

	// 125 seconds bill as 3 minutes: 3 x 3 x 2 = 18 actual, refund 12.
	reconciler := s.env.newReconciler(room.FirstActivityAt.Add(125 * time.Second))
	s.Require().NoError(reconciler.CloseAndReconcile(s.ctx, room.RoomID))

	entries := s.env.store.EntriesForRoom(room.RoomID)
	s.Require().Len(entries, 2)
	s.Equal(domain.EntryRefund, entries[1].Kind)
	s.Equal(int64(12), entries[1].Amount)
}

func (s *ReconciliationServiceTestSuite) TestFreeMinutes_NotBilled() {
	s.env.store.SetSetting("free_minutes", "10")

	_, err := s.env.seedUser("alice", 100)
	s.Require().NoError(err)

	// With 10 free minutes a 15-minute plan holds only 5 tokens.
	room, err := s.env.rooms.CreateRoom(s.ctx, "alice", dto.CreateRoomRequest{
		Topic:           "standup",
		DurationMinutes: 15,
		StartNow:        true,
	})
	s.Require().NoError(err)
	s.Equal(int64(5), room.PrepaidCost)

	_, err = s.env.presence.Join(s.ctx, room.RoomID, "alice")
	s.Require().NoError(err)

	// 8 elapsed minutes are entirely within the free allowance: the whole
	// hold comes back.
	reconciler := s.env.newReconciler(room.FirstActivityAt.Add(8 * time.Minute))
	s.Require().NoError(reconciler.CloseAndReconcile(s.ctx, room.RoomID))

	account, err := s.env.ledger.GetAccountByUserID(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(int64(100), account.Balance)
}

func (s *ReconciliationServiceTestSuite) TestOvertime_ChargeClampedToBalance() {
	_, err := s.env.seedUser("alice", 10)
	s.Require().NoError(err)

	// Prepaid 5; after the hold alice has 5 left.
	room, err := s.env.rooms.CreateRoom(s.ctx, "alice", dto.CreateRoomRequest{
		Topic:           "standup",
		DurationMinutes: 5,
		StartNow:        true,
	})
	s.Require().NoError(err)
	s.Equal(int64(5), room.PrepaidCost)

	_, err = s.env.presence.Join(s.ctx, room.RoomID, "alice")
	s.Require().NoError(err)

	// 30 elapsed minutes x 1 participant = 30 actual; overtime delta of 25
	// clamps to the remaining balance of 5. The shortfall is absorbed, not
	// turned into debt.
	reconciler := s.env.newReconciler(room.FirstActivityAt.Add(30 * time.Minute))
	s.Require().NoError(reconciler.CloseAndReconcile(s.ctx, room.RoomID))

	account, err := s.env.ledger.GetAccountByUserID(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(int64(0), account.Balance)

	entries := s.env.store.EntriesForRoom(room.RoomID)
	s.Require().Len(entries, 2)
	s.Equal(domain.EntryCharge, entries[1].Kind)
	s.Equal(int64(-5), entries[1].Amount)

	closed, err := s.env.rooms.GetRoom(s.ctx, room.RoomID)
	s.Require().NoError(err)
	s.Equal(domain.RoomClosed, closed.Status)
}

func (s *ReconciliationServiceTestSuite) TestExactCost_NoAdjustment() {
	_, err := s.env.seedUser("alice", 100)
	s.Require().NoError(err)

	room, err := s.env.rooms.CreateRoom(s.ctx, "alice", dto.CreateRoomRequest{
		Topic:           "standup",
		DurationMinutes: 10,
		StartNow:        true,
	})
	s.Require().NoError(err)

	_, err = s.env.presence.Join(s.ctx, room.RoomID, "alice")
	s.Require().NoError(err)

	// Exactly the planned 10 minutes: actual equals prepaid, no entry.
	reconciler := s.env.newReconciler(room.FirstActivityAt.Add(10 * time.Minute))
	s.Require().NoError(reconciler.CloseAndReconcile(s.ctx, room.RoomID))

	entries := s.env.store.EntriesForRoom(room.RoomID)
	s.Len(entries, 1) // just the original hold
}

func (s *ReconciliationServiceTestSuite) TestEmptyRoom_BillsHeadcountFloorOfOne() {
	_, err := s.env.seedUser("alice", 100)
	s.Require().NoError(err)

	room, err := s.env.rooms.CreateRoom(s.ctx, "alice", dto.CreateRoomRequest{
		Topic:           "standup",
		DurationMinutes: 10,
		StartNow:        true,
	})
	s.Require().NoError(err)

	// Everyone already left when the close runs; the session still bills for
	// at least one seat: 4 x 1 x 1 = 4, refund 6 of the 10 held.
	reconciler := s.env.newReconciler(room.FirstActivityAt.Add(4 * time.Minute))
	s.Require().NoError(reconciler.CloseAndReconcile(s.ctx, room.RoomID))

	entries := s.env.store.EntriesForRoom(room.RoomID)
	s.Require().Len(entries, 2)
	s.Equal(int64(6), entries[1].Amount)
}

func (s *ReconciliationServiceTestSuite) TestPolicyReadAtSettlementTime() {
	_, err := s.env.seedUser("alice", 100)
	s.Require().NoError(err)

	room, err := s.env.rooms.CreateRoom(s.ctx, "alice", dto.CreateRoomRequest{
		Topic:           "standup",
		DurationMinutes: 10,
		StartNow:        true,
	})
	s.Require().NoError(err)
	s.Equal(int64(10), room.PrepaidCost)

	_, err = s.env.presence.Join(s.ctx, room.RoomID, "alice")
	s.Require().NoError(err)

	// The rate doubles mid-session; the whole session prices at the new rate.
	s.env.store.SetSetting("rate_per_person_per_minute", "2")

	reconciler := s.env.newReconciler(room.FirstActivityAt.Add(10 * time.Minute))
	s.Require().NoError(reconciler.CloseAndReconcile(s.ctx, room.RoomID))

	// actual = 10 min x 1 person x 2 = 20, delta 10 over the hold.
	account, err := s.env.ledger.GetAccountByUserID(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(int64(80), account.Balance)
}

func (s *ReconciliationServiceTestSuite) TestAlreadyClosed_IsSuccessNoOp() {
	_, err := s.env.seedUser("alice", 100)
	s.Require().NoError(err)

	room, err := s.env.rooms.CreateRoom(s.ctx, "alice", dto.CreateRoomRequest{
		Topic:           "standup",
		DurationMinutes: 10,
	})
	s.Require().NoError(err)

	reconciler := s.env.newReconciler(time.Now().UTC())
	s.Require().NoError(reconciler.CloseAndReconcile(s.ctx, room.RoomID))
	s.Require().NoError(reconciler.CloseAndReconcile(s.ctx, room.RoomID))

	// One refund, not two.
	entries := s.env.store.EntriesForRoom(room.RoomID)
	s.Len(entries, 2)
}

func (s *ReconciliationServiceTestSuite) TestUnknownRoom_IsError() {
	reconciler := s.env.newReconciler(time.Now().UTC())
	err := reconciler.CloseAndReconcile(s.ctx, "no-such-room")
	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ReconciliationServiceTestSuite) TestConcurrentClose_SettlesExactlyOnce() {
	_, err := s.env.seedUser("alice", 100)
	s.Require().NoError(err)

	room, err := s.env.rooms.CreateRoom(s.ctx, "alice", dto.CreateRoomRequest{
		Topic:           "standup",
		DurationMinutes: 30,
	})
	s.Require().NoError(err)

	reconciler := s.env.newReconciler(time.Now().UTC())

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = reconciler.CloseAndReconcile(s.ctx, room.RoomID)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		s.NoError(err)
	}

	// Exactly one settlement despite eight concurrent closers.
	entries := s.env.store.EntriesForRoom(room.RoomID)
	s.Require().Len(entries, 2)

	account, err := s.env.ledger.GetAccountByUserID(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(int64(100), account.Balance)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
