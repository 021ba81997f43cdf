package handlers_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/vuthy55/roomledger/internal/adapters/database/memory"
	"github.com/vuthy55/roomledger/internal/adapters/notify"
	portsrepo "github.com/vuthy55/roomledger/internal/core/ports/repositories"
	"github.com/vuthy55/roomledger/internal/core/services"
	"github.com/vuthy55/roomledger/internal/dto"
	"github.com/vuthy55/roomledger/internal/handlers"
	"github.com/vuthy55/roomledger/pkg/config"
)

// RoomFlowTestSuite drives the full HTTP surface against the in-memory store:
// register, login, create a room, join, leave, and verify the reconciled
// close and the resulting balance.
type RoomFlowTestSuite struct {
	suite.Suite
	router *gin.Engine
	store  *memory.Store
}

func (s *RoomFlowTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.store = memory.NewStore()
	cfg := &config.Config{
		DatabaseURL:       "unused",
		Port:              "0",
		IsProduction:      true, // no swagger
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "roomledger-test",
		TxMaxAttempts:     3,
		TxAttemptTimeout:  3 * time.Second,
	}

	logger := slog.Default()
	repos := portsrepo.RepositoryProvider{
		Transactor:      s.store,
		AccountRepo:     s.store,
		LedgerRepo:      s.store,
		RoomRepo:        s.store,
		ParticipantRepo: s.store,
		UserRepo:        s.store,
		SettingsRepo:    s.store,
	}
	container := services.NewServiceContainer(cfg, repos, nil, notify.NewLogNotifier(logger), notify.NewLogPublisher(logger))

	s.router = gin.New()
	handlers.RegisterRoutes(s.router, cfg, container)
}

func (s *RoomFlowTestSuite) request(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RoomFlowTestSuite) registerAndLogin(name, email string) string {
	w := s.request(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: "correct-horse-battery",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.request(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email:    email,
		Password: "correct-horse-battery",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var login dto.LoginResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &login))
	s.Require().NotEmpty(login.Token)
	return login.Token
}

func (s *RoomFlowTestSuite) TestProtectedRoutesRequireToken() {
	w := s.request(http.MethodGet, "/api/v1/accounts/me", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *RoomFlowTestSuite) TestFullRoomLifecycle() {
	token := s.registerAndLogin("Alice", "alice@example.com")

	// Signup bonus lands on the fresh account.
	w := s.request(http.MethodGet, "/api/v1/accounts/me", token, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var account dto.AccountResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &account))
	s.Equal(int64(100), account.Balance)

	// Create a started 10-minute room: a hold of 10 tokens.
	w = s.request(http.MethodPost, "/api/v1/rooms", token, dto.CreateRoomRequest{
		Topic:           "standup",
		DurationMinutes: 10,
		StartNow:        true,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var room dto.RoomResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &room))
	s.Equal("ACTIVE", room.Status)
	s.Equal(int64(10), room.PrepaidCost)

	w = s.request(http.MethodPost, "/api/v1/rooms/"+room.RoomID+"/join", token, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	// Last participant leaves: the room settles and closes in the follow-up
	// step of the same request.
	w = s.request(http.MethodPost, "/api/v1/rooms/"+room.RoomID+"/leave", token, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var left dto.LeaveResult
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &left))
	s.True(left.Left)
	s.True(left.ReconciliationRequired)

	w = s.request(http.MethodGet, "/api/v1/rooms/"+room.RoomID, token, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var closed dto.RoomResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &closed))
	s.Equal("CLOSED", closed.Status)

	// The session ran under a minute, so it bills as one minute for one
	// participant: 9 of the 10 held tokens come back.
	w = s.request(http.MethodGet, "/api/v1/accounts/me", token, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &account))
	s.Equal(int64(99), account.Balance)

	// The ledger tells the same story: bonus, hold, refund.
	w = s.request(http.MethodGet, "/api/v1/accounts/me/ledger", token, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var entries []dto.LedgerEntryResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &entries))
	s.Require().Len(entries, 3)
	s.Equal("REFUND", entries[0].Kind)
	s.Equal(int64(9), entries[0].Amount)
}

func (s *RoomFlowTestSuite) TestCreateRoomBeyondBalanceIsRejected() {
	token := s.registerAndLogin("Bob", "bob@example.com")

	// 200 planned minutes at rate 1 exceeds the 100-token signup bonus.
	w := s.request(http.MethodPost, "/api/v1/rooms", token, dto.CreateRoomRequest{
		Topic:           "marathon",
		DurationMinutes: 200,
	})
	s.Equal(http.StatusPaymentRequired, w.Code, w.Body.String())
}

func TestRoomFlowTestSuite(t *testing.T) {
	suite.Run(t, new(RoomFlowTestSuite))
}
