package storagetesting

import (
	"context"
	"sync"
	"time"

	"github.com/MichalMitros/catalog-bridge/internal/platform"
	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/samber/lo"
)

// Entry is catalog entry stored by Memory.
type Entry struct {
	ID         int64
	Fields     models.CatalogFields
	CategoryID int64
	TermIDs    []int64
	PrimaryID  int64
	GalleryIDs []int64
}

type categoryKey struct {
	name     string
	parentID int64
}

type termKey struct {
	slug  string
	value string
}

// Memory is in-memory catalog, media and run store used in tests.
type Memory struct {
	mu sync.Mutex

	lastID     int64
	entries    map[int64]*Entry
	skus       map[string]int64
	categories map[categoryKey]int64
	attributes map[string]string
	terms      map[termKey]int64
	media      map[string]int64
	content    map[int64][]byte
	runs       []models.Run

	// RegisterCalls counts RegisterMedia calls.
	RegisterCalls int
}

// NewMemory returns empty Memory with provided attribute taxonomies registered.
func NewMemory(attributes map[string]string) *Memory {
	m := &Memory{
		entries:    map[int64]*Entry{},
		skus:       map[string]int64{},
		categories: map[categoryKey]int64{},
		attributes: map[string]string{},
		terms:      map[termKey]int64{},
		media:      map[string]int64{},
		content:    map[int64][]byte{},
	}
	_ = m.EnsureAttributes(context.Background(), attributes)
	return m
}

func (m *Memory) nextID() int64 {
	m.lastID++
	return m.lastID
}

// EnsureAttributes registers attribute taxonomies.
func (m *Memory) EnsureAttributes(_ context.Context, attributes map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for slug, label := range attributes {
		m.attributes[slug] = label
	}
	return nil
}

func (m *Memory) FindBySKU(_ context.Context, sku string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.skus[sku]
	return id, ok, nil
}

func (m *Memory) Create(_ context.Context, fields models.CatalogFields) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID()
	m.entries[id] = &Entry{ID: id, Fields: fields}
	m.skus[fields.SKU] = id
	return id, nil
}

func (m *Memory) Update(_ context.Context, entryID int64, fields models.CatalogFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[entryID]
	if !ok {
		return platform.ErrRecord
	}
	entry.Fields = fields
	return nil
}

func (m *Memory) GetOrCreateCategory(_ context.Context, name string, parentID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := categoryKey{name: name, parentID: parentID}
	if id, ok := m.categories[key]; ok {
		return id, nil
	}
	id := m.nextID()
	m.categories[key] = id
	return id, nil
}

func (m *Memory) AssignCategory(_ context.Context, entryID, categoryID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[entryID]
	if !ok {
		return platform.ErrRecord
	}
	entry.CategoryID = categoryID
	return nil
}

func (m *Memory) GetOrCreateAttributeTerm(_ context.Context, slug, value string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.attributes[slug]; !ok {
		return 0, platform.ErrUnknownAttribute
	}

	key := termKey{slug: slug, value: value}
	if id, ok := m.terms[key]; ok {
		return id, nil
	}
	id := m.nextID()
	m.terms[key] = id
	return id, nil
}

func (m *Memory) AttachTerm(_ context.Context, entryID, termID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[entryID]
	if !ok {
		return platform.ErrRecord
	}
	if !lo.Contains(entry.TermIDs, termID) {
		entry.TermIDs = append(entry.TermIDs, termID)
	}
	return nil
}

func (m *Memory) ClearTerms(_ context.Context, entryID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.entries[entryID]; ok {
		entry.TermIDs = nil
	}
	return nil
}

func (m *Memory) FindMediaByFilename(_ context.Context, filename string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.media[filename]
	return id, ok, nil
}

func (m *Memory) RegisterMedia(_ context.Context, filename string, content []byte) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RegisterCalls++
	if id, ok := m.media[filename]; ok {
		m.content[id] = content
		return id, nil
	}
	id := m.nextID()
	m.media[filename] = id
	m.content[id] = content
	return id, nil
}

func (m *Memory) SetPrimaryImage(_ context.Context, entryID, mediaID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[entryID]
	if !ok {
		return platform.ErrRecord
	}
	entry.PrimaryID = mediaID
	return nil
}

func (m *Memory) SetGalleryImages(_ context.Context, entryID int64, mediaIDs []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[entryID]
	if !ok {
		return platform.ErrRecord
	}
	entry.GalleryIDs = append([]int64{}, mediaIDs...)
	return nil
}

// StartRun creates unfinished run of source.
// It returns platform.ErrAlreadyRunning if previous run of source is not finished yet.
func (m *Memory) StartRun(_ context.Context, sourceID string) (*models.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if last, ok := m.lastRun(sourceID); ok && last.FinishedAt == nil && last.IsSuccess == nil {
		return nil, platform.ErrAlreadyRunning
	}

	run := models.Run{
		ID:        len(m.runs) + 1,
		SourceID:  sourceID,
		CreatedAt: time.Now(),
	}
	m.runs = append(m.runs, run)
	return &run, nil
}

func (m *Memory) FinishRun(_ context.Context, run *models.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if run.ID < 1 || run.ID > len(m.runs) {
		return platform.ErrNoRuns
	}
	createdAt := m.runs[run.ID-1].CreatedAt
	m.runs[run.ID-1] = *run
	m.runs[run.ID-1].CreatedAt = createdAt
	return nil
}

func (m *Memory) LastRun(_ context.Context, sourceID string) (*models.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.lastRun(sourceID)
	if !ok {
		return nil, platform.ErrNoRuns
	}
	return &run, nil
}

func (m *Memory) lastRun(sourceID string) (models.Run, bool) {
	for ix := len(m.runs) - 1; ix >= 0; ix-- {
		if m.runs[ix].SourceID == sourceID {
			return m.runs[ix], true
		}
	}
	return models.Run{}, false
}

// Entry returns copy of catalog entry with provided sku.
func (m *Memory) Entry(sku string) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.skus[sku]
	if !ok {
		return Entry{}, false
	}
	return *m.entries[id], true
}

// Entries returns number of catalog entries.
func (m *Memory) Entries() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}

// Media returns number of registered media.
func (m *Memory) Media() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.media)
}

// CategoryID returns id of category path leaf, 0 when path isn't stored.
func (m *Memory) CategoryID(path ...string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var parentID int64
	for _, name := range path {
		id, ok := m.categories[categoryKey{name: name, parentID: parentID}]
		if !ok {
			return 0
		}
		parentID = id
	}
	return parentID
}
