// Package scope implements row-level read visibility for the school
// entities: which rows a caller may see, as a SQL predicate derived from
// the caller's role and identity. Read visibility is independent of write
// authorization, which is enforced by route roles and service-level
// ownership checks.
package scope

// Role identifies the caller's position in the school.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleTeacher   Role = "TEACHER"
	RoleStudent   Role = "STUDENT"
	RoleParent    Role = "PARENT"
	RoleAnonymous Role = "ANONYMOUS"
)

// Known reports whether the role is one the scope table understands.
// Anything else is treated as no-access.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleParent, RoleAnonymous:
		return true
	}
	return false
}

// Caller is the authenticated actor for the lifetime of one request.
// It is resolved once from the session and passed explicitly; nothing in
// the query path reaches for ambient user state.
type Caller struct {
	ID   string
	Role Role
}

// Anonymous is the caller used when no valid session is present.
func Anonymous() Caller {
	return Caller{Role: RoleAnonymous}
}

// Entity names a scoped row kind. The SQL fragments in the scope table
// assume the repository aliases documented per entity.
type Entity string

const (
	EntityTeacher      Entity = "teacher"      // alias t
	EntityStudent      Entity = "student"      // alias s
	EntityParent       Entity = "parent"       // alias p
	EntityClass        Entity = "class"        // alias c
	EntitySubject      Entity = "subject"      // alias sub
	EntityLesson       Entity = "lesson"       // alias l
	EntityExam         Entity = "exam"         // alias e, joined lessons l
	EntityResult       Entity = "result"       // alias r
	EntityAnnouncement Entity = "announcement" // alias a
	EntityEvent        Entity = "event"        // alias ev
)

// For returns the read-visibility predicate for the caller on the given
// entity. Admin sees everything. A role with no entry in the table —
// including values outside the known set — gets the no-rows predicate:
// visibility fails closed.
func For(entity Entity, caller Caller) Predicate {
	if caller.Role == RoleAdmin {
		return All()
	}
	byRole, ok := readScopes[entity]
	if !ok {
		return None()
	}
	build, ok := byRole[caller.Role]
	if !ok {
		return None()
	}
	return build(caller.ID)
}

// Merge intersects an explicit query filter with the caller's read scope.
// Admin bypasses the scope entirely; every other role gets the strict
// intersection, with any disjunction inside the scope kept nested so the
// filter can never broaden the visible set.
func Merge(filter, roleScope Predicate, role Role) Predicate {
	if role == RoleAdmin {
		return filter
	}
	return And(filter, roleScope)
}
