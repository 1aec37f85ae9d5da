package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
	appErrors "github.com/schoolsync/school-admin-api/pkg/errors"
)

type memoryCache struct {
	data     map[string][]byte
	patterns []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	m.data = make(map[string][]byte)
	return nil
}

type fakeAnnouncementRepo struct {
	rows    []models.AnnouncementRow
	lists   int
	created *models.Announcement
}

func (f *fakeAnnouncementRepo) List(ctx context.Context, filter models.AnnouncementFilter, caller scope.Caller, page models.PageRequest) ([]models.AnnouncementRow, int, error) {
	f.lists++
	return f.rows, len(f.rows), nil
}

func (f *fakeAnnouncementRepo) FindByID(ctx context.Context, id int, caller scope.Caller) (*models.Announcement, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeAnnouncementRepo) Create(ctx context.Context, ann *models.Announcement) error {
	ann.ID = 1
	f.created = ann
	return nil
}

func (f *fakeAnnouncementRepo) Update(ctx context.Context, ann *models.Announcement) error { return nil }
func (f *fakeAnnouncementRepo) Delete(ctx context.Context, id int) error                   { return nil }

func TestAnnouncementServiceListCachesPerScope(t *testing.T) {
	repo := &fakeAnnouncementRepo{rows: []models.AnnouncementRow{
		{Announcement: models.Announcement{ID: 1, Title: "Holiday", Date: time.Now()}},
	}}
	cache := NewCacheService(newMemoryCache(), nil, time.Minute, nil, true)
	svc := NewAnnouncementService(repo, cache, nil, nil, 10)

	caller := scope.Caller{ID: "stu-1", Role: scope.RoleStudent}

	rows, _, hit, err := svc.List(context.Background(), models.AnnouncementFilter{}, caller)
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, rows, 1)

	rows, _, hit, err = svc.List(context.Background(), models.AnnouncementFilter{}, caller)
	require.NoError(t, err)
	assert.True(t, hit)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, repo.lists)

	// A different caller scope must not be served the cached page.
	other := scope.Caller{ID: "teacher-1", Role: scope.RoleTeacher}
	_, _, hit, err = svc.List(context.Background(), models.AnnouncementFilter{}, other)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, repo.lists)
}

func TestAnnouncementServiceCreateInvalidatesCache(t *testing.T) {
	repo := &fakeAnnouncementRepo{}
	backing := newMemoryCache()
	cache := NewCacheService(backing, nil, time.Minute, nil, true)
	svc := NewAnnouncementService(repo, cache, nil, nil, 10)

	caller := scope.Caller{ID: "stu-1", Role: scope.RoleStudent}
	_, _, _, err := svc.List(context.Background(), models.AnnouncementFilter{}, caller)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), models.AnnouncementRequest{
		Title:       "Holiday",
		Description: "School closed",
		Date:        time.Now(),
	})
	require.NoError(t, err)
	assert.Contains(t, backing.patterns, "announcements:*")

	_, _, hit, err := svc.List(context.Background(), models.AnnouncementFilter{}, caller)
	require.NoError(t, err)
	assert.False(t, hit)
}
