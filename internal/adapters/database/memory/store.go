// Package memory provides an in-memory implementation of the engine's
// repositories and Transactor. It backs tests that need real transactional
// semantics (rollback on error, serialized commits) without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vuthy55/roomledger/internal/apperrors"
	"github.com/vuthy55/roomledger/internal/core/domain"
	portsrepo "github.com/vuthy55/roomledger/internal/core/ports/repositories"
)

type txKeyType struct{}

var txKey = txKeyType{}

// state is the whole store content. Transactions snapshot it and restore the
// snapshot when the transaction function fails.
type state struct {
	accounts     map[string]domain.Account
	entries      []domain.LedgerEntry
	rooms        map[string]domain.Room
	participants map[string][]domain.Participant // keyed by roomID, kept join-ordered
	users        map[string]domain.User
	settings     map[string]string
}

func newState() *state {
	return &state{
		accounts:     map[string]domain.Account{},
		rooms:        map[string]domain.Room{},
		participants: map[string][]domain.Participant{},
		users:        map[string]domain.User{},
		settings:     map[string]string{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	c.entries = append([]domain.LedgerEntry(nil), s.entries...)
	for k, v := range s.rooms {
		room := v
		room.EmceeIDs = append([]string(nil), v.EmceeIDs...)
		room.InvitedIDs = append([]string(nil), v.InvitedIDs...)
		c.rooms[k] = room
	}
	for k, v := range s.participants {
		c.participants[k] = append([]domain.Participant(nil), v...)
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.settings {
		c.settings[k] = v
	}
	return c
}

// Store is a mutex-guarded in-memory store. A single lock serializes
// transactions, which stands in for the document store's optimistic
// concurrency: concurrent WithinTx calls commit one after another, and each
// sees the previous commit's state.
type Store struct {
	mu    sync.Mutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

var (
	_ portsrepo.Transactor            = (*Store)(nil)
	_ portsrepo.AccountRepository     = (*Store)(nil)
	_ portsrepo.LedgerRepository      = (*Store)(nil)
	_ portsrepo.RoomRepository        = (*Store)(nil)
	_ portsrepo.ParticipantRepository = (*Store)(nil)
	_ portsrepo.UserRepository        = (*Store)(nil)
	_ portsrepo.SettingsRepository    = (*Store)(nil)
)

// WithinTx implements ports.Transactor. Nested calls join the ambient
// transaction; the outermost call holds the store lock for its duration and
// restores the pre-transaction snapshot when fn fails.
func (m *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey) != nil {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state.clone()
	if err := fn(context.WithValue(ctx, txKey, txKey)); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

// lock guards non-transactional access. Inside a transaction the store lock
// is already held by WithinTx.
func (m *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey) != nil {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

// --- AccountRepository ---

func (m *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	defer m.lock(ctx)()
	if _, exists := m.state.accounts[account.AccountID]; exists {
		return apperrors.ErrDuplicate
	}
	m.state.accounts[account.AccountID] = account
	return nil
}

func (m *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	defer m.lock(ctx)()
	account, ok := m.state.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &account, nil
}

func (m *Store) FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	defer m.lock(ctx)()
	for _, account := range m.state.accounts {
		if account.UserID == userID {
			a := account
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *Store) UpdateBalance(ctx context.Context, accountID string, newBalance int64, updatedBy string, now time.Time) error {
	defer m.lock(ctx)()
	account, ok := m.state.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	account.Balance = newBalance
	account.LastUpdatedAt = now
	account.LastUpdatedBy = updatedBy
	m.state.accounts[accountID] = account
	return nil
}

// --- LedgerRepository ---

func (m *Store) AppendEntry(ctx context.Context, entry domain.LedgerEntry) error {
	defer m.lock(ctx)()
	m.state.entries = append(m.state.entries, entry)
	return nil
}

func (m *Store) ListEntriesByAccountID(ctx context.Context, accountID string, limit, offset int) ([]domain.LedgerEntry, error) {
	defer m.lock(ctx)()
	matched := []domain.LedgerEntry{}
	for _, e := range m.state.entries {
		if e.AccountID == accountID {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if offset >= len(matched) {
		return []domain.LedgerEntry{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// EntriesForRoom returns all entries referencing a room, in insertion order.
// Test helper, not part of any port.
func (m *Store) EntriesForRoom(roomID string) []domain.LedgerEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	matched := []domain.LedgerEntry{}
	for _, e := range m.state.entries {
		if e.RoomID == roomID {
			matched = append(matched, e)
		}
	}
	return matched
}

// --- RoomRepository ---

func (m *Store) SaveRoom(ctx context.Context, room domain.Room) error {
	defer m.lock(ctx)()
	if _, exists := m.state.rooms[room.RoomID]; exists {
		return apperrors.ErrDuplicate
	}
	room.EmceeIDs = append([]string(nil), room.EmceeIDs...)
	room.InvitedIDs = append([]string(nil), room.InvitedIDs...)
	m.state.rooms[room.RoomID] = room
	return nil
}

func (m *Store) FindRoomByID(ctx context.Context, roomID string) (*domain.Room, error) {
	defer m.lock(ctx)()
	room, ok := m.state.rooms[roomID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	room.EmceeIDs = append([]string(nil), room.EmceeIDs...)
	room.InvitedIDs = append([]string(nil), room.InvitedIDs...)
	return &room, nil
}

func (m *Store) UpdateRoom(ctx context.Context, room domain.Room) error {
	defer m.lock(ctx)()
	if _, ok := m.state.rooms[room.RoomID]; !ok {
		return apperrors.ErrNotFound
	}
	room.EmceeIDs = append([]string(nil), room.EmceeIDs...)
	room.InvitedIDs = append([]string(nil), room.InvitedIDs...)
	m.state.rooms[room.RoomID] = room
	return nil
}

// --- ParticipantRepository ---

func (m *Store) SaveParticipant(ctx context.Context, p domain.Participant) error {
	defer m.lock(ctx)()
	m.state.participants[p.RoomID] = append(m.state.participants[p.RoomID], p)
	sort.SliceStable(m.state.participants[p.RoomID], func(i, j int) bool {
		a, b := m.state.participants[p.RoomID][i], m.state.participants[p.RoomID][j]
		if a.JoinedAt.Equal(b.JoinedAt) {
			return a.UserID < b.UserID
		}
		return a.JoinedAt.Before(b.JoinedAt)
	})
	return nil
}

func (m *Store) FindParticipant(ctx context.Context, roomID, userID string) (*domain.Participant, error) {
	defer m.lock(ctx)()
	for _, p := range m.state.participants[roomID] {
		if p.UserID == userID {
			found := p
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *Store) ListParticipants(ctx context.Context, roomID string) ([]domain.Participant, error) {
	defer m.lock(ctx)()
	return append([]domain.Participant{}, m.state.participants[roomID]...), nil
}

func (m *Store) DeleteParticipant(ctx context.Context, roomID, userID string) error {
	defer m.lock(ctx)()
	list := m.state.participants[roomID]
	for i, p := range list {
		if p.UserID == userID {
			m.state.participants[roomID] = append(append([]domain.Participant{}, list[:i]...), list[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *Store) CountParticipants(ctx context.Context, roomID string) (int, error) {
	defer m.lock(ctx)()
	return len(m.state.participants[roomID]), nil
}

// --- UserRepository ---

func (m *Store) SaveUser(ctx context.Context, user domain.User) error {
	defer m.lock(ctx)()
	for _, u := range m.state.users {
		if u.Email == user.Email {
			return apperrors.ErrDuplicate
		}
	}
	m.state.users[user.UserID] = user
	return nil
}

func (m *Store) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	defer m.lock(ctx)()
	user, ok := m.state.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &user, nil
}

func (m *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	defer m.lock(ctx)()
	for _, u := range m.state.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// --- SettingsRepository ---

func (m *Store) SetSetting(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.settings[key] = value
}

func (m *Store) GetSettings(ctx context.Context) (map[string]string, error) {
	defer m.lock(ctx)()
	out := make(map[string]string, len(m.state.settings))
	for k, v := range m.state.settings {
		out[k] = v
	}
	return out, nil
}
