package testutil

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/dafibh/underwriter/underwriter-backend/internal/domain"
	"github.com/dafibh/underwriter/underwriter-backend/internal/websocket"
	"github.com/google/uuid"
)

// MockWorkspaceRepository is a mock implementation of domain.WorkspaceRepository
type MockWorkspaceRepository struct {
	mu         sync.Mutex
	Workspaces map[int32]*domain.Workspace
	ByAuth0ID  map[string]*domain.Workspace
	NextID     int32
	Err        error
}

// NewMockWorkspaceRepository creates a new MockWorkspaceRepository
func NewMockWorkspaceRepository() *MockWorkspaceRepository {
	return &MockWorkspaceRepository{
		Workspaces: make(map[int32]*domain.Workspace),
		ByAuth0ID:  make(map[string]*domain.Workspace),
		NextID:     1,
	}
}

// GetByID retrieves a workspace by ID
func (m *MockWorkspaceRepository) GetByID(id int32) (*domain.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ws, ok := m.Workspaces[id]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// GetByOwnerAuth0ID retrieves a workspace by its owner's Auth0 ID
func (m *MockWorkspaceRepository) GetByOwnerAuth0ID(auth0ID string) (*domain.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ws, ok := m.ByAuth0ID[auth0ID]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// CreateOrGetByOwnerAuth0ID returns the existing workspace or creates one
func (m *MockWorkspaceRepository) CreateOrGetByOwnerAuth0ID(auth0ID, name string) (*domain.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if ws, ok := m.ByAuth0ID[auth0ID]; ok {
		return ws, nil
	}
	now := time.Now()
	ws := &domain.Workspace{ID: m.NextID, OwnerAuth0ID: auth0ID, Name: name, CreatedAt: now, UpdatedAt: now}
	m.NextID++
	m.Workspaces[ws.ID] = ws
	m.ByAuth0ID[auth0ID] = ws
	return ws, nil
}

// AddWorkspace adds a workspace to the mock repository (helper for tests)
func (m *MockWorkspaceRepository) AddWorkspace(ws *domain.Workspace) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Workspaces[ws.ID] = ws
	m.ByAuth0ID[ws.OwnerAuth0ID] = ws
}

// MockDealRepository is an in-memory domain.DealRepository. Stored deals are
// copied so callers cannot mutate repository state by accident.
type MockDealRepository struct {
	mu     sync.Mutex
	Deals  map[int32]*domain.Deal
	NextID int32
	Now    func() time.Time

	CreateErr error
	UpdateErr error
	PurgeErr  error

	SaveAnalysisCalls int
	PurgeCutoffs      []time.Time

	// BeforeSaveAnalysis, when set, runs at the start of SaveAnalysis
	BeforeSaveAnalysis func()
}

// NewMockDealRepository creates a new MockDealRepository
func NewMockDealRepository() *MockDealRepository {
	return &MockDealRepository{
		Deals:  make(map[int32]*domain.Deal),
		NextID: 1,
		Now:    time.Now,
	}
}

func copyDeal(d *domain.Deal) *domain.Deal {
	c := *d
	c.Properties = append([]domain.DealProperty(nil), d.Properties...)
	if d.Analysis != nil {
		a := *d.Analysis
		c.Analysis = &a
	}
	return &c
}

// Create stores a new deal
func (m *MockDealRepository) Create(deal *domain.Deal) (*domain.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	stored := copyDeal(deal)
	stored.ID = m.NextID
	m.NextID++
	if stored.PublicID == uuid.Nil {
		stored.PublicID = uuid.New()
	}
	if stored.Status == "" {
		stored.Status = domain.DealStatusDraft
	}
	stored.CreatedAt = m.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.Deals[stored.ID] = stored
	return copyDeal(stored), nil
}

func (m *MockDealRepository) live(workspaceID, id int32) (*domain.Deal, bool) {
	d, ok := m.Deals[id]
	if !ok || d.WorkspaceID != workspaceID || d.DeletedAt != nil {
		return nil, false
	}
	return d, true
}

// GetByID retrieves a live deal
func (m *MockDealRepository) GetByID(workspaceID int32, id int32) (*domain.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.live(workspaceID, id)
	if !ok {
		return nil, domain.ErrDealNotFound
	}
	return copyDeal(d), nil
}

// GetAllByWorkspace lists live deals by descending ID
func (m *MockDealRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	deals := make([]*domain.Deal, 0)
	for id := range m.Deals {
		if d, ok := m.live(workspaceID, id); ok {
			deals = append(deals, copyDeal(d))
		}
	}
	sort.Slice(deals, func(i, j int) bool { return deals[i].ID > deals[j].ID })
	return deals, nil
}

// Update replaces a live deal
func (m *MockDealRepository) Update(deal *domain.Deal) (*domain.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	existing, ok := m.live(deal.WorkspaceID, deal.ID)
	if !ok {
		return nil, domain.ErrDealNotFound
	}
	stored := copyDeal(deal)
	stored.PublicID = existing.PublicID
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = m.Now()
	m.Deals[deal.ID] = stored
	return copyDeal(stored), nil
}

// SaveAnalysis attaches an analysis and marks the deal analyzed when the
// deal is unchanged since updatedAt
func (m *MockDealRepository) SaveAnalysis(workspaceID int32, id int32, analysis *domain.DealAnalysis, updatedAt time.Time) error {
	if m.BeforeSaveAnalysis != nil {
		m.BeforeSaveAnalysis()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveAnalysisCalls++
	d, ok := m.live(workspaceID, id)
	if !ok {
		return domain.ErrDealNotFound
	}
	if !d.UpdatedAt.Equal(updatedAt) {
		return domain.ErrDealModified
	}
	a := *analysis
	d.Analysis = &a
	d.Status = domain.DealStatusAnalyzed
	d.UpdatedAt = m.Now()
	return nil
}

// SoftDelete marks a deal deleted
func (m *MockDealRepository) SoftDelete(workspaceID int32, id int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.live(workspaceID, id)
	if !ok {
		return domain.ErrDealNotFound
	}
	now := m.Now()
	d.DeletedAt = &now
	return nil
}

// PurgeDeleted removes deals soft-deleted before the cutoff
func (m *MockDealRepository) PurgeDeleted(before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PurgeCutoffs = append(m.PurgeCutoffs, before)
	if m.PurgeErr != nil {
		return 0, m.PurgeErr
	}
	var purged int64
	for id, d := range m.Deals {
		if d.DeletedAt != nil && d.DeletedAt.Before(before) {
			delete(m.Deals, id)
			purged++
		}
	}
	return purged, nil
}

// PurgeCallCount returns how many times PurgeDeleted ran
func (m *MockDealRepository) PurgeCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.PurgeCutoffs)
}

// StoredObject is an object captured by MockObjectStore
type StoredObject struct {
	Data        []byte
	ContentType string
}

// MockObjectStore is an in-memory storage.ObjectStore
type MockObjectStore struct {
	mu        sync.Mutex
	Objects   map[string]StoredObject
	UploadErr error
	Deleted   []string
}

// NewMockObjectStore creates a new MockObjectStore
func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{Objects: make(map[string]StoredObject)}
}

// Upload stores the object in memory
func (m *MockObjectStore) Upload(ctx context.Context, key string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	buf, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = StoredObject{Data: buf, ContentType: contentType}
	return key, nil
}

// Delete removes the object
func (m *MockObjectStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	m.Deleted = append(m.Deleted, key)
	return nil
}

// GeneratePresignedURL returns a fake signed URL
func (m *MockObjectStore) GeneratePresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/%s?expires=%d", key, int(expiry.Seconds())), nil
}

// Object returns a stored object and whether it exists
func (m *MockObjectStore) Object(key string) (StoredObject, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.Objects[key]
	return obj, ok
}

// PublishedEvent is an event captured by MockEventPublisher
type PublishedEvent struct {
	WorkspaceID int32
	Event       websocket.Event
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(workspaceID int32, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{WorkspaceID: workspaceID, Event: event})
}

// Events returns a copy of the recorded events
func (m *MockEventPublisher) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PublishedEvent(nil), m.events...)
}

// Types returns the recorded event types in order
func (m *MockEventPublisher) Types() []string {
	events := m.Events()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.Event.Type
	}
	return types
}
