package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolsync/school-admin-api/internal/middleware"
	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
	"github.com/schoolsync/school-admin-api/internal/service"
)

// scopedResultRepo serves a fixed row but only to the caller it belongs
// to, mirroring the scoped detail queries the real repository runs.
type scopedResultRepo struct {
	result     models.Result
	owner      scope.Caller
	lastCaller scope.Caller
}

func (f *scopedResultRepo) List(ctx context.Context, filter models.ResultFilter, caller scope.Caller, page models.PageRequest) ([]models.ResultRecord, int, error) {
	return nil, 0, nil
}

func (f *scopedResultRepo) ListAll(ctx context.Context, filter models.ResultFilter, caller scope.Caller) ([]models.ResultRecord, error) {
	return nil, nil
}

func (f *scopedResultRepo) FindByID(ctx context.Context, id int, caller scope.Caller) (*models.Result, error) {
	f.lastCaller = caller
	if caller.Role != scope.RoleAdmin && caller != f.owner {
		return nil, sql.ErrNoRows
	}
	if id != f.result.ID {
		return nil, sql.ErrNoRows
	}
	r := f.result
	return &r, nil
}

func (f *scopedResultRepo) AssessmentOwnedBy(ctx context.Context, examID, assignmentID *int, teacherID string) (bool, error) {
	return false, nil
}

func (f *scopedResultRepo) Create(ctx context.Context, result *models.Result) error { return nil }
func (f *scopedResultRepo) Update(ctx context.Context, result *models.Result) error { return nil }
func (f *scopedResultRepo) Delete(ctx context.Context, id int) error                { return nil }

func TestResultHandlerGetHidesForeignRowFromAnonymousCaller(t *testing.T) {
	repo := &scopedResultRepo{
		result: models.Result{ID: 5, Score: 91, StudentID: "stu-2"},
		owner:  scope.Caller{ID: "stu-2", Role: scope.RoleStudent},
	}
	handler := NewResultHandler(service.NewResultService(repo, nil, nil, nil, nil, 10))

	c, w := testContext(t, "/results/5")
	c.Params = gin.Params{{Key: "id", Value: "5"}}

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, scope.RoleAnonymous, repo.lastCaller.Role)
}

func TestResultHandlerGetServesOwnRow(t *testing.T) {
	owner := scope.Caller{ID: "stu-2", Role: scope.RoleStudent}
	repo := &scopedResultRepo{
		result: models.Result{ID: 5, Score: 91, StudentID: "stu-2"},
		owner:  owner,
	}
	handler := NewResultHandler(service.NewResultService(repo, nil, nil, nil, nil, 10))

	c, w := testContext(t, "/results/5")
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: owner.ID, Role: owner.Role})

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"score":91`)
}
