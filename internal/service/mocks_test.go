package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"stageflow/internal/model"
)

// ── in-memory repository mocks ──

type mockAccountRepo struct {
	mu       sync.Mutex
	accounts []*model.Account
	nextID   int
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{nextID: 1}
}

func (m *mockAccountRepo) Create(_ context.Context, acc *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc.AccountID = fmt.Sprintf("acc-%d", m.nextID)
	acc.CreatedAt = time.Now()
	m.nextID++
	cp := *acc
	m.accounts = append(m.accounts, &cp)
	return nil
}

func (m *mockAccountRepo) GetByID(_ context.Context, id string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.AccountID == id {
			cp := *acc
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccountRepo) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if strings.EqualFold(acc.Email, strings.TrimSpace(email)) {
			cp := *acc
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccountRepo) Update(_ context.Context, acc *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, stored := range m.accounts {
		if stored.AccountID == acc.AccountID {
			cp := *acc
			m.accounts[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type mockRecordRepo struct {
	mu      sync.Mutex
	records []*model.Record
	nextID  uint64
}

func newMockRecordRepo() *mockRecordRepo {
	return &mockRecordRepo{nextID: 1}
}

func (m *mockRecordRepo) Append(_ context.Context, rec *model.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.RecordID = m.nextID
	m.nextID++
	cp := *rec
	m.records = append(m.records, &cp)
	return nil
}

func (m *mockRecordRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.records)), nil
}

func (m *mockRecordRepo) GetByIndex(_ context.Context, index int) (*model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.records) {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.records[index]
	return &cp, nil
}

func (m *mockRecordRepo) UpdateBusinessFields(_ context.Context, recordID uint64, rec *model.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, stored := range m.records {
		if stored.RecordID == recordID {
			stored.Specialty = rec.Specialty
			stored.Group = rec.Group
			stored.FullName = rec.FullName
			stored.NationalID = rec.NationalID
			stored.PlacementDate = rec.PlacementDate
			stored.TotalHours = rec.TotalHours
			stored.Municipality = rec.Municipality
			stored.Institution = rec.Institution
			stored.SupervisorName = rec.SupervisorName
			stored.SupervisorID = rec.SupervisorID
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockRecordRepo) Delete(_ context.Context, recordID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, stored := range m.records {
		if stored.RecordID == recordID {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockRecordRepo) List(_ context.Context, offset, limit int) ([]model.Record, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := int64(len(m.records))
	if offset >= len(m.records) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(m.records) {
		end = len(m.records)
	}
	out := make([]model.Record, 0, end-offset)
	for _, rec := range m.records[offset:end] {
		out = append(out, *rec)
	}
	return out, total, nil
}

// ── outbound service mocks ──

type mockCache struct {
	mu          sync.Mutex
	codes       map[string]string
	blacklisted map[string]bool
}

func newMockCache() *mockCache {
	return &mockCache{
		codes:       make(map[string]string),
		blacklisted: make(map[string]bool),
	}
}

func (m *mockCache) SetResetCode(_ context.Context, email, code string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[email] = code
	return nil
}

func (m *mockCache) ConsumeResetCode(_ context.Context, email, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stored, ok := m.codes[email]; ok && stored == code {
		delete(m.codes, email)
		return true, nil
	}
	return false, nil
}

func (m *mockCache) RemoveResetCode(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, email)
	return nil
}

func (m *mockCache) BlacklistToken(_ context.Context, jti string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blacklisted[jti] = true
	return nil
}

func (m *mockCache) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blacklisted[jti], nil
}

type mockNotifier struct {
	mu       sync.Mutex
	sent     []string // "email:code"
	sendErr  error
	lastCode string
}

func (m *mockNotifier) SendResetCode(email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, email+":"+code)
	m.lastCode = code
	return nil
}

type mockFileHost struct {
	uploadErr error
	lastName  string
	lastType  string
	lastSize  int
}

func (m *mockFileHost) Upload(_ context.Context, name, contentType string, data []byte) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.lastName = name
	m.lastType = contentType
	m.lastSize = len(data)
	return "https://files.example.com/" + name, nil
}
