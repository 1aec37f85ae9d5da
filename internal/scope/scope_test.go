package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForAdminIsUnrestricted(t *testing.T) {
	admin := Caller{ID: "admin-1", Role: RoleAdmin}
	for _, entity := range []Entity{EntityTeacher, EntityStudent, EntityClass, EntityExam, EntityResult, EntityAnnouncement, EntityEvent} {
		p := For(entity, admin)
		assert.True(t, p.Empty(), "admin scope for %s should be unrestricted", entity)
	}
}

func TestForDirectoryEntitiesOpenToKnownRoles(t *testing.T) {
	for _, role := range []Role{RoleTeacher, RoleStudent, RoleParent} {
		for _, entity := range []Entity{EntityTeacher, EntityStudent, EntityParent, EntityClass, EntitySubject, EntityLesson} {
			p := For(entity, Caller{ID: "u1", Role: role})
			assert.True(t, p.Empty(), "%s should see all %s rows", role, entity)
		}
	}
}

func TestForExamScopes(t *testing.T) {
	teacher := For(EntityExam, Caller{ID: "t-1", Role: RoleTeacher})
	assert.Equal(t, "l.teacher_id = ?", teacher.SQL())
	assert.Equal(t, []interface{}{"t-1"}, teacher.Args())

	student := For(EntityExam, Caller{ID: "s-1", Role: RoleStudent})
	assert.Contains(t, student.SQL(), "cs.class_id = l.class_id")
	assert.Contains(t, student.SQL(), "cs.id = ?")

	parent := For(EntityExam, Caller{ID: "p-1", Role: RoleParent})
	assert.Contains(t, parent.SQL(), "cs.parent_id = ?")
}

func TestForResultScopes(t *testing.T) {
	teacher := For(EntityResult, Caller{ID: "t-1", Role: RoleTeacher})
	// Exam-side OR assignment-side ownership, both bound to the caller.
	assert.Contains(t, teacher.SQL(), "r.exam_id")
	assert.Contains(t, teacher.SQL(), "r.assignment_id")
	assert.Contains(t, teacher.SQL(), " OR ")
	assert.Equal(t, []interface{}{"t-1", "t-1"}, teacher.Args())

	student := For(EntityResult, Caller{ID: "s-1", Role: RoleStudent})
	assert.Equal(t, "r.student_id = ?", student.SQL())
}

func TestForAnnouncementKeepsClassNullDisjunction(t *testing.T) {
	for _, role := range []Role{RoleTeacher, RoleStudent, RoleParent} {
		p := For(EntityAnnouncement, Caller{ID: "u1", Role: role})
		assert.Contains(t, p.SQL(), "a.class_id IS NULL")
		assert.Contains(t, p.SQL(), " OR ")
	}
}

func TestForAnonymousSeesOnlySchoolWideRows(t *testing.T) {
	p := For(EntityAnnouncement, Anonymous())
	assert.Equal(t, "a.class_id IS NULL", p.SQL())
	assert.Empty(t, p.Args())

	for _, entity := range []Entity{EntityExam, EntityResult, EntityTeacher, EntityStudent, EntityClass} {
		p := For(entity, Anonymous())
		assert.Equal(t, "FALSE", p.SQL(), "anonymous should see no %s rows", entity)
	}
}

func TestForUnknownRoleFailsClosed(t *testing.T) {
	rogue := Caller{ID: "x", Role: Role("superuser")}
	for _, entity := range []Entity{EntityTeacher, EntityStudent, EntityClass, EntityExam, EntityResult, EntityAnnouncement, EntityEvent} {
		p := For(entity, rogue)
		require.Equal(t, "FALSE", p.SQL(), "unknown role must get no rows for %s", entity)
	}
}

func TestMergeAdminBypassesScope(t *testing.T) {
	filter := Cond("l.class_id = ?", 3)
	merged := Merge(filter, None(), RoleAdmin)
	assert.Equal(t, filter.SQL(), merged.SQL())
	assert.Equal(t, filter.Args(), merged.Args())
}

func TestMergeIntersectsScopeForOtherRoles(t *testing.T) {
	filter := Cond("l.class_id = ?", 3)
	roleScope := Or(Cond("a.class_id IS NULL"), Cond("cs.id = ?", "s-1"))

	merged := Merge(filter, roleScope, RoleStudent)
	assert.Equal(t, "(l.class_id = ?) AND ((a.class_id IS NULL) OR (cs.id = ?))", merged.SQL())
	assert.Equal(t, []interface{}{3, "s-1"}, merged.Args())
}

func TestMergeEmptyFilterKeepsScopeOnly(t *testing.T) {
	roleScope := Cond("r.student_id = ?", "s-1")
	merged := Merge(All(), roleScope, RoleStudent)
	assert.Equal(t, "r.student_id = ?", merged.SQL())
}

func TestRoleKnown(t *testing.T) {
	assert.True(t, RoleAdmin.Known())
	assert.True(t, RoleAnonymous.Known())
	assert.False(t, Role("root").Known())
}
