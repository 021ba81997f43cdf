package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/vuthy55/roomledger/internal/apperrors"
	"github.com/vuthy55/roomledger/internal/core/domain"
	"github.com/vuthy55/roomledger/internal/core/services"
	"github.com/vuthy55/roomledger/internal/dto"
)

type RoomServiceTestSuite struct {
	suite.Suite
	env *testEnv
	ctx context.Context
}

func (s *RoomServiceTestSuite) SetupTest() {
	s.env = newTestEnv()
	s.ctx = context.Background()
}

func (s *RoomServiceTestSuite) TestCreateRoom_DebitsHold() {
	_, err := s.env.seedUser("alice", 100)
	s.Require().NoError(err)

	// 30 minutes, creator plus one invitee, rate 1 token/person/minute.
	room, err := s.env.rooms.CreateRoom(s.ctx, "alice", dto.CreateRoomRequest{
		Topic:           "standup",
		DurationMinutes: 30,
		InvitedIDs:      []string{"bob"},
	})
	s.Require().NoError(err)
	s.Equal(domain.RoomScheduled, room.Status)
	s.Equal(int64(60), room.PrepaidCost)
	s.Equal([]string{"alice"}, room.EmceeIDs)
	s.Nil(room.FirstActivityAt)

	account, err := s.env.ledger.GetAccountByUserID(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(int64(40), account.Balance)

	entries := s.env.store.EntriesForRoom(room.RoomID)
	s.Require().Len(entries, 1)
	s.Equal(domain.EntryHold, entries[0].Kind)
	s.Equal(int64(-60), entries[0].Amount)
}

func (s *RoomServiceTestSuite) TestCreateRoom_InsufficientFundsLeavesNothingBehind() {
	account, err := s.env.seedUser("alice", 10)
	s.Require().NoError(err)

	_, err = s.env.rooms.CreateRoom(s.ctx, "alice", dto.CreateRoomRequest{
		Topic:           "standup",
		DurationMinutes: 30,
	})
	s.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)

	updated, err := s.env.ledger.GetAccountByUserID(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(int64(10), updated.Balance)

	entries, err := s.env.ledger.ListEntries(s.ctx, account.AccountID, 10, 0)
	s.Require().NoError(err)
	s.Len(entries, 1) // only the seed bonus
}

func (s *RoomServiceTestSuite) TestCreateRoom_StartNow() {
	_, err := s.env.seedUser("alice", 100)
	s.Require().NoError(err)

	room, err := s.env.rooms.CreateRoom(s.ctx, "alice", dto.CreateRoomRequest{
		Topic:           "incident bridge",
		DurationMinutes: 10,
		StartNow:        true,
	})
	s.Require().NoError(err)
	s.Equal(domain.RoomActive, room.Status)
	s.Require().NotNil(room.FirstActivityAt)
}

func (s *RoomServiceTestSuite) TestMarkFirstActivity_Idempotent() {
	_, err := s.env.seedUser("alice", 100)
	s.Require().NoError(err)

	room, err := s.env.rooms.CreateRoom(s.ctx, "alice", dto.CreateRoomRequest{
		Topic:           "standup",
		DurationMinutes: 10,
	})
	s.Require().NoError(err)

	s.Require().NoError(s.env.rooms.MarkFirstActivity(s.ctx, room.RoomID))
	first, err := s.env.rooms.GetRoom(s.ctx, room.RoomID)
	s.Require().NoError(err)
	s.Equal(domain.RoomActive, first.Status)
	s.Require().NotNil(first.FirstActivityAt)

	// The stamp is set exactly once.
	s.Require().NoError(s.env.rooms.MarkFirstActivity(s.ctx, room.RoomID))
	second, err := s.env.rooms.GetRoom(s.ctx, room.RoomID)
	s.Require().NoError(err)
	s.True(first.FirstActivityAt.Equal(*second.FirstActivityAt))
}

func (s *RoomServiceTestSuite) TestMarkFirstActivity_ClosedRoom() {
	_, err := s.env.seedUser("alice", 100)
	s.Require().NoError(err)

	room, err := s.env.rooms.CreateRoom(s.ctx, "alice", dto.CreateRoomRequest{
		Topic:           "standup",
		DurationMinutes: 10,
	})
	s.Require().NoError(err)

	closed := *room
	closed.Status = domain.RoomClosed
	s.Require().NoError(s.env.store.UpdateRoom(s.ctx, closed))

	err = s.env.rooms.MarkFirstActivity(s.ctx, room.RoomID)
	s.Require().ErrorIs(err, apperrors.ErrRoomClosed)
}

func (s *RoomServiceTestSuite) TestReviseSchedule_CostChangeSwapsHold() {
	_, err := s.env.seedUser("alice", 100)
	s.Require().NoError(err)

	room, err := s.env.rooms.CreateRoom(s.ctx, "alice", dto.CreateRoomRequest{
		Topic:           "standup",
		DurationMinutes: 30,
	})
	s.Require().NoError(err)
	s.Equal(int64(30), room.PrepaidCost)

	longer := 60
	revised, err := s.env.rooms.ReviseSchedule(s.ctx, room.RoomID, "alice", dto.UpdateRoomRequest{
		DurationMinutes: &longer,
	})
	s.Require().NoError(err)
	s.Equal(int64(60), revised.PrepaidCost)
	s.Equal(60, revised.DurationMinutes)

	account, err := s.env.ledger.GetAccountByUserID(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(int64(40), account.Balance)

	// Old hold released, new hold charged, both referencing the room.
	entries := s.env.store.EntriesForRoom(room.RoomID)
	s.Require().Len(entries, 3)
	s.Equal(domain.EntryHold, entries[0].Kind)
	s.Equal(domain.EntryRefund, entries[1].Kind)
	s.Equal(int64(30), entries[1].Amount)
	s.Equal(domain.EntryHold, entries[2].Kind)
	s.Equal(int64(-60), entries[2].Amount)
}

func (s *RoomServiceTestSuite) TestReviseSchedule_MetadataOnlyLeavesLedgerAlone() {
	_, err := s.env.seedUser("alice", 100)
	s.Require().NoError(err)

	room, err := s.env.rooms.CreateRoom(s.ctx, "alice", dto.CreateRoomRequest{
		Topic:           "standup",
		DurationMinutes: 30,
	})
	s.Require().NoError(err)

	topic := "retro"
	revised, err := s.env.rooms.ReviseSchedule(s.ctx, room.RoomID, "alice", dto.UpdateRoomRequest{
		Topic: &topic,
	})
	s.Require().NoError(err)
	s.Equal("retro", revised.Topic)
	s.Equal(int64(30), revised.PrepaidCost)

	entries := s.env.store.EntriesForRoom(room.RoomID)
	s.Len(entries, 1)
}

func (s *RoomServiceTestSuite) TestReviseSchedule_OnlyCreatorAndOnlyScheduled() {
	_, err := s.env.seedUser("alice", 100)
	s.Require().NoError(err)

	room, err := s.env.rooms.CreateRoom(s.ctx, "alice", dto.CreateRoomRequest{
		Topic:           "standup",
		DurationMinutes: 30,
	})
	s.Require().NoError(err)

	topic := "hijacked"
	_, err = s.env.rooms.ReviseSchedule(s.ctx, room.RoomID, "mallory", dto.UpdateRoomRequest{Topic: &topic})
	s.Require().ErrorIs(err, services.ErrNotRoomCreator)

	s.Require().NoError(s.env.rooms.MarkFirstActivity(s.ctx, room.RoomID))
	_, err = s.env.rooms.ReviseSchedule(s.ctx, room.RoomID, "alice", dto.UpdateRoomRequest{Topic: &topic})
	s.Require().ErrorIs(err, services.ErrRoomNotEditable)
}

func TestRoomServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RoomServiceTestSuite))
}
