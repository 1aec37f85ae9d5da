package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolsync/school-admin-api/internal/identity"
	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
	appErrors "github.com/schoolsync/school-admin-api/pkg/errors"
)

type fakeIdentity struct {
	nextID    string
	created   []identity.CreateUserParams
	deleted   []string
	createErr error
	deleteErr error
}

func (f *fakeIdentity) CreateUser(ctx context.Context, params identity.CreateUserParams) (*identity.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, params)
	id := f.nextID
	if id == "" {
		id = "acct-1"
	}
	return &identity.User{ID: id, Username: params.Username, FirstName: params.FirstName, LastName: params.LastName, Role: params.Role}, nil
}

func (f *fakeIdentity) UpdateUser(ctx context.Context, id string, params identity.UpdateUserParams) (*identity.User, error) {
	return &identity.User{ID: id, Username: params.Username, FirstName: params.FirstName, LastName: params.LastName}, nil
}

func (f *fakeIdentity) GetUser(ctx context.Context, id string) (*identity.User, error) {
	return nil, identity.ErrNotFound
}

func (f *fakeIdentity) DeleteUser(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

type fakeTeacherRepo struct {
	teachers   map[string]models.TeacherRow
	created    *models.Teacher
	deleted    []string
	createErr  error
	lastCaller scope.Caller
}

func (f *fakeTeacherRepo) List(ctx context.Context, filter models.TeacherFilter, caller scope.Caller, page models.PageRequest) ([]models.TeacherRow, int, error) {
	return nil, 0, nil
}

func (f *fakeTeacherRepo) FindByID(ctx context.Context, id string, caller scope.Caller) (*models.TeacherRow, error) {
	f.lastCaller = caller
	if caller.Role == scope.RoleAnonymous {
		return nil, sql.ErrNoRows
	}
	if t, ok := f.teachers[id]; ok {
		return &t, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTeacherRepo) Create(ctx context.Context, teacher *models.Teacher, subjectIDs []int) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = teacher
	return nil
}

func (f *fakeTeacherRepo) Update(ctx context.Context, teacher *models.Teacher, subjectIDs []int) error {
	return nil
}

func (f *fakeTeacherRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func validTeacherRequest() models.TeacherRequest {
	return models.TeacherRequest{
		Username:  "jsmith",
		Password:  "supersecret",
		Name:      "Jane",
		Surname:   "Smith",
		Address:   "12 Main St",
		BloodType: "A+",
		Sex:       models.SexFemale,
		Birthday:  time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestTeacherServiceCreateKeysRowByIdentityID(t *testing.T) {
	repo := &fakeTeacherRepo{}
	provider := &fakeIdentity{nextID: "ident-7"}
	svc := NewTeacherService(repo, provider, nil, nil, 10)

	teacher, err := svc.Create(context.Background(), validTeacherRequest())
	require.NoError(t, err)
	assert.Equal(t, "ident-7", teacher.ID)
	require.NotNil(t, repo.created)
	assert.Equal(t, "ident-7", repo.created.ID)
	require.Len(t, provider.created, 1)
	assert.Equal(t, string(scope.RoleTeacher), provider.created[0].Role)
}

func TestTeacherServiceCreateRollsBackIdentityOnInsertFailure(t *testing.T) {
	repo := &fakeTeacherRepo{createErr: errors.New("insert failed")}
	provider := &fakeIdentity{nextID: "ident-7"}
	svc := NewTeacherService(repo, provider, nil, nil, 10)

	_, err := svc.Create(context.Background(), validTeacherRequest())
	require.Error(t, err)
	assert.Equal(t, []string{"ident-7"}, provider.deleted)
}

func TestTeacherServiceCreateRequiresPassword(t *testing.T) {
	repo := &fakeTeacherRepo{}
	provider := &fakeIdentity{}
	svc := NewTeacherService(repo, provider, nil, nil, 10)

	req := validTeacherRequest()
	req.Password = ""
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, provider.created)
}

func TestTeacherServiceDeleteToleratesMissingAccount(t *testing.T) {
	repo := &fakeTeacherRepo{teachers: map[string]models.TeacherRow{
		"ident-7": {Teacher: models.Teacher{ID: "ident-7"}},
	}}
	provider := &fakeIdentity{deleteErr: identity.ErrNotFound}
	svc := NewTeacherService(repo, provider, nil, nil, 10)

	require.NoError(t, svc.Delete(context.Background(), "ident-7", scope.Caller{ID: "admin-1", Role: scope.RoleAdmin}))
	assert.Equal(t, []string{"ident-7"}, repo.deleted)
}

func TestTeacherServiceDeleteUnknownTeacher(t *testing.T) {
	repo := &fakeTeacherRepo{}
	provider := &fakeIdentity{}
	svc := NewTeacherService(repo, provider, nil, nil, 10)

	err := svc.Delete(context.Background(), "missing", scope.Caller{ID: "admin-1", Role: scope.RoleAdmin})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, provider.deleted)
}

func TestTeacherServiceGetPassesCallerToRepo(t *testing.T) {
	repo := &fakeTeacherRepo{teachers: map[string]models.TeacherRow{
		"ident-7": {Teacher: models.Teacher{ID: "ident-7"}},
	}}
	svc := NewTeacherService(repo, &fakeIdentity{}, nil, nil, 10)

	_, err := svc.Get(context.Background(), "ident-7", scope.Caller{Role: scope.RoleAnonymous})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Equal(t, scope.RoleAnonymous, repo.lastCaller.Role)

	teacher, err := svc.Get(context.Background(), "ident-7", scope.Caller{ID: "s-1", Role: scope.RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, "ident-7", teacher.ID)
}
