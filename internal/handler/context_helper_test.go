package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolsync/school-admin-api/internal/middleware"
	"github.com/schoolsync/school-admin-api/internal/models"
	"github.com/schoolsync/school-admin-api/internal/scope"
)

func testContext(t *testing.T, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	c.Request = req
	return c, w
}

func TestCallerFromContextWithoutSession(t *testing.T) {
	c, _ := testContext(t, "/teachers")

	caller := callerFromContext(c)
	assert.Equal(t, scope.RoleAnonymous, caller.Role)
	assert.Empty(t, caller.ID)
}

func TestCallerFromContextWithClaims(t *testing.T) {
	c, _ := testContext(t, "/teachers")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "teacher-1", Role: scope.RoleTeacher})

	caller := callerFromContext(c)
	assert.Equal(t, scope.RoleTeacher, caller.Role)
	assert.Equal(t, "teacher-1", caller.ID)
}

func TestPageQueryFallsBackToFirstPage(t *testing.T) {
	for _, raw := range []string{"", "abc", "0", "-3"} {
		c, _ := testContext(t, "/teachers?page="+raw)
		assert.Equal(t, 1, pageQuery(c), "page=%q", raw)
	}

	c, _ := testContext(t, "/teachers?page=4")
	assert.Equal(t, 4, pageQuery(c))
}

func TestIntQueryRejectsMalformedValue(t *testing.T) {
	c, _ := testContext(t, "/exams?classId=abc")
	value, err := intQuery(c, "classId")
	require.Error(t, err)
	assert.Nil(t, value)

	c, _ = testContext(t, "/exams")
	value, err = intQuery(c, "classId")
	require.NoError(t, err)
	assert.Nil(t, value)

	c, _ = testContext(t, "/exams?classId=7")
	value, err = intQuery(c, "classId")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, 7, *value)
}

func TestExamHandlerListRejectsMalformedClassFilter(t *testing.T) {
	handler := NewExamHandler(nil)
	c, w := testContext(t, "/exams?classId=abc")

	handler.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClassHandlerGetRejectsMalformedID(t *testing.T) {
	handler := NewClassHandler(nil)
	c, w := testContext(t, "/classes/abc")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Get(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
