package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
	appErrors "github.com/schoolsync/school-admin-api/pkg/errors"
)

type fakeStudentRepo struct {
	capacity int
	enrolled int
	insertOK bool
	created  *models.Student
	deleted  []string
	seatsErr error
}

func (f *fakeStudentRepo) List(ctx context.Context, filter models.StudentFilter, caller scope.Caller, page models.PageRequest) ([]models.StudentRow, int, error) {
	return nil, 0, nil
}

func (f *fakeStudentRepo) FindByID(ctx context.Context, id string, caller scope.Caller) (*models.StudentRow, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeStudentRepo) ClassSeats(ctx context.Context, classID int) (int, int, error) {
	if f.seatsErr != nil {
		return 0, 0, f.seatsErr
	}
	return f.capacity, f.enrolled, nil
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) (bool, error) {
	if !f.insertOK {
		return false, nil
	}
	f.created = student
	return true, nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	return nil
}

func (f *fakeStudentRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func validStudentRequest() models.StudentRequest {
	return models.StudentRequest{
		Username:  "akid",
		Password:  "supersecret",
		Name:      "Alex",
		Surname:   "Kid",
		Address:   "12 Main St",
		BloodType: "O-",
		Sex:       models.SexMale,
		Birthday:  time.Date(2012, 9, 1, 0, 0, 0, 0, time.UTC),
		GradeID:   1,
		ClassID:   5,
		ParentID:  "parent-1",
	}
}

func TestStudentServiceCreateFullClassSkipsProvisioning(t *testing.T) {
	repo := &fakeStudentRepo{capacity: 30, enrolled: 30}
	provider := &fakeIdentity{}
	svc := NewStudentService(repo, provider, nil, nil, 10)

	_, err := svc.Create(context.Background(), validStudentRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrClassFull.Code, appErrors.FromError(err).Code)
	assert.Empty(t, provider.created)
	assert.Nil(t, repo.created)
}

func TestStudentServiceCreateLosesRaceCompensatesIdentity(t *testing.T) {
	repo := &fakeStudentRepo{capacity: 30, enrolled: 29, insertOK: false}
	provider := &fakeIdentity{nextID: "ident-9"}
	svc := NewStudentService(repo, provider, nil, nil, 10)

	_, err := svc.Create(context.Background(), validStudentRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrClassFull.Code, appErrors.FromError(err).Code)
	require.Len(t, provider.created, 1)
	assert.Equal(t, []string{"ident-9"}, provider.deleted)
}

func TestStudentServiceCreateSuccess(t *testing.T) {
	repo := &fakeStudentRepo{capacity: 30, enrolled: 12, insertOK: true}
	provider := &fakeIdentity{nextID: "ident-9"}
	svc := NewStudentService(repo, provider, nil, nil, 10)

	student, err := svc.Create(context.Background(), validStudentRequest())
	require.NoError(t, err)
	assert.Equal(t, "ident-9", student.ID)
	assert.Equal(t, string(scope.RoleStudent), provider.created[0].Role)
	assert.Empty(t, provider.deleted)
}

func TestStudentServiceCreateUnknownClass(t *testing.T) {
	repo := &fakeStudentRepo{seatsErr: sql.ErrNoRows}
	provider := &fakeIdentity{}
	svc := NewStudentService(repo, provider, nil, nil, 10)

	_, err := svc.Create(context.Background(), validStudentRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, provider.created)
}
