package comment

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/hanghae99-6-d/backend/domain"
)

var (
	errInjected = errors.New("injected fault")
	errTxDone   = sql.ErrTxDone
)

// memStore is an in-memory Repository. Writes made through a memTx are staged
// and applied under the store lock on Commit, so readers never see half of a
// unit of work.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	rows     map[int64]*domain.Comment
	openTxs  int
	begun    int
	released int

	failInsertChild error
	failIncrement   error
	failDecrement   error
	failCommit      error
	failBegin       error
	listErr         error
}

func newMemStore() *memStore {
	return &memStore{rows: map[int64]*domain.Comment{}}
}

func (m *memStore) BeginTx(ctx context.Context) (Tx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failBegin != nil {
		return nil, m.failBegin
	}
	m.openTxs++
	m.begun++
	return &memTx{store: m, ctx: ctx}, nil
}

func (m *memStore) GetComment(_ context.Context, id int64) (domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[id]
	if !ok {
		return domain.Comment{}, ErrNotFound
	}
	return *row, nil
}

func (m *memStore) GetOwnedComment(_ context.Context, id int64, authorID string) (domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[id]
	if !ok || row.AuthorID != authorID || row.IsDeleted() {
		return domain.Comment{}, ErrNotFound
	}
	return *row, nil
}

func (m *memStore) list(match func(c *domain.Comment) bool, cursor int64, limit int) ([]domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}

	out := make([]domain.Comment, 0)
	for _, row := range m.rows {
		if row.ID > cursor && !row.IsDeleted() && match(row) {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) ListRoots(_ context.Context, groupID, cursor int64, limit int) ([]domain.Comment, error) {
	return m.list(func(c *domain.Comment) bool {
		return c.GroupID == groupID && c.IsRoot()
	}, cursor, limit)
}

func (m *memStore) ListChildren(_ context.Context, groupID, parentID, cursor int64, limit int) ([]domain.Comment, error) {
	return m.list(func(c *domain.Comment) bool {
		return c.GroupID == groupID && c.ParentID != nil && *c.ParentID == parentID
	}, cursor, limit)
}

func (m *memStore) newRow(groupID int64, parentID *int64, authorID, content string) *domain.Comment {
	m.nextID++
	now := time.Now().UTC()
	return &domain.Comment{
		ID:        m.nextID,
		GroupID:   groupID,
		ParentID:  parentID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (m *memStore) InsertRoot(_ context.Context, groupID int64, authorID, content string) (domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row := m.newRow(groupID, nil, authorID, content)
	m.rows[row.ID] = row
	return *row, nil
}

func (m *memStore) UpdateContent(_ context.Context, id int64, content string) (domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[id]
	if !ok || row.IsDeleted() {
		return domain.Comment{}, ErrNotFound
	}
	row.Content = content
	row.UpdatedAt = time.Now().UTC()
	return *row, nil
}

func (m *memStore) SoftDelete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[id]
	if !ok || row.IsDeleted() {
		return ErrNotFound
	}
	now := time.Now().UTC()
	row.DeletedAt = &now
	return nil
}

// liveChildren counts live rows pointing at parentID, the ground truth for the
// counter.
func (m *memStore) liveChildren(parentID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, row := range m.rows {
		if row.ParentID != nil && *row.ParentID == parentID && !row.IsDeleted() {
			n++
		}
	}
	return n
}

func (m *memStore) stats() (open, begun, released int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.openTxs, m.begun, m.released
}

type memTx struct {
	store *memStore
	ctx   context.Context
	done  bool

	inserts    []*domain.Comment
	increments []int64
	deletes    []int64
	decrements []int64
}

func (t *memTx) InsertChild(_ context.Context, groupID, parentID int64, authorID, content string) (domain.Comment, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if t.store.failInsertChild != nil {
		return domain.Comment{}, t.store.failInsertChild
	}
	if _, ok := t.store.rows[parentID]; !ok {
		return domain.Comment{}, errors.New("foreign key violation")
	}
	pid := parentID
	row := t.store.newRow(groupID, &pid, authorID, content)
	t.inserts = append(t.inserts, row)
	return *row, nil
}

func (t *memTx) IncrementChildCount(_ context.Context, parentID int64) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if t.store.failIncrement != nil {
		return t.store.failIncrement
	}
	parent, ok := t.store.rows[parentID]
	if !ok || !parent.IsRoot() || parent.IsDeleted() {
		return ErrNotFound
	}
	t.increments = append(t.increments, parentID)
	return nil
}

func (t *memTx) SoftDelete(_ context.Context, id int64) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	row, ok := t.store.rows[id]
	if !ok || row.IsDeleted() {
		return ErrNotFound
	}
	t.deletes = append(t.deletes, id)
	return nil
}

func (t *memTx) DecrementChildCount(_ context.Context, parentID int64) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if t.store.failDecrement != nil {
		return t.store.failDecrement
	}
	parent, ok := t.store.rows[parentID]
	if !ok || !parent.IsRoot() {
		return ErrNotFound
	}
	t.decrements = append(t.decrements, parentID)
	return nil
}

func (t *memTx) Commit() error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if t.done {
		return errTxDone
	}
	if t.store.failCommit != nil {
		return t.store.failCommit
	}
	if err := t.ctx.Err(); err != nil {
		return err
	}
	// A concurrent delete of the same row won the row lock.
	for _, id := range t.deletes {
		if t.store.rows[id].IsDeleted() {
			return ErrNotFound
		}
	}

	now := time.Now().UTC()
	for _, row := range t.inserts {
		t.store.rows[row.ID] = row
	}
	for _, id := range t.increments {
		t.store.rows[id].ChildCount++
	}
	for _, id := range t.deletes {
		t.store.rows[id].DeletedAt = &now
	}
	for _, id := range t.decrements {
		if t.store.rows[id].ChildCount > 0 {
			t.store.rows[id].ChildCount--
		}
	}

	t.finish()
	return nil
}

func (t *memTx) Rollback() error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if t.done {
		return errTxDone
	}
	t.finish()
	return nil
}

func (t *memTx) finish() {
	t.done = true
	t.store.openTxs--
	t.store.released++
}
