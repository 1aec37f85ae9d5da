package scope

type build func(callerID string) Predicate

func unrestricted(string) Predicate { return All() }

// Directory entities (rosters and catalog data) are readable by every
// authenticated role; only the permitted write actions differ. Entities
// with an ownership edge to a role carry strict row predicates.
var directoryRoles = map[Role]build{
	RoleTeacher: unrestricted,
	RoleStudent: unrestricted,
	RoleParent:  unrestricted,
}

var readScopes = map[Entity]map[Role]build{
	EntityTeacher: directoryRoles,
	EntityStudent: directoryRoles,
	EntityParent:  directoryRoles,
	EntityClass:   directoryRoles,
	EntitySubject: directoryRoles,
	EntityLesson:  directoryRoles,

	EntityExam: {
		RoleTeacher: func(id string) Predicate {
			return Cond("l.teacher_id = ?", id)
		},
		RoleStudent: func(id string) Predicate {
			return Cond("EXISTS (SELECT 1 FROM students cs WHERE cs.class_id = l.class_id AND cs.id = ?)", id)
		},
		RoleParent: func(id string) Predicate {
			return Cond("EXISTS (SELECT 1 FROM students cs WHERE cs.class_id = l.class_id AND cs.parent_id = ?)", id)
		},
	},

	EntityResult: {
		RoleTeacher: func(id string) Predicate {
			return Or(
				Cond("EXISTS (SELECT 1 FROM exams te JOIN lessons tl ON tl.id = te.lesson_id WHERE te.id = r.exam_id AND tl.teacher_id = ?)", id),
				Cond("EXISTS (SELECT 1 FROM assignments ta JOIN lessons tl ON tl.id = ta.lesson_id WHERE ta.id = r.assignment_id AND tl.teacher_id = ?)", id),
			)
		},
		RoleStudent: func(id string) Predicate {
			return Cond("r.student_id = ?", id)
		},
		RoleParent: func(id string) Predicate {
			return Cond("EXISTS (SELECT 1 FROM students cs WHERE cs.id = r.student_id AND cs.parent_id = ?)", id)
		},
	},

	EntityAnnouncement: {
		RoleTeacher: func(id string) Predicate {
			return Or(
				Cond("a.class_id IS NULL"),
				Cond("EXISTS (SELECT 1 FROM lessons cl WHERE cl.class_id = a.class_id AND cl.teacher_id = ?)", id),
			)
		},
		RoleStudent: func(id string) Predicate {
			return Or(
				Cond("a.class_id IS NULL"),
				Cond("EXISTS (SELECT 1 FROM students cs WHERE cs.class_id = a.class_id AND cs.id = ?)", id),
			)
		},
		RoleParent: func(id string) Predicate {
			return Or(
				Cond("a.class_id IS NULL"),
				Cond("EXISTS (SELECT 1 FROM students cs WHERE cs.class_id = a.class_id AND cs.parent_id = ?)", id),
			)
		},
		// Unauthenticated callers see only school-wide announcements.
		RoleAnonymous: func(string) Predicate {
			return Cond("a.class_id IS NULL")
		},
	},

	EntityEvent: {
		RoleTeacher: func(id string) Predicate {
			return Or(
				Cond("ev.class_id IS NULL"),
				Cond("EXISTS (SELECT 1 FROM lessons cl WHERE cl.class_id = ev.class_id AND cl.teacher_id = ?)", id),
			)
		},
		RoleStudent: func(id string) Predicate {
			return Or(
				Cond("ev.class_id IS NULL"),
				Cond("EXISTS (SELECT 1 FROM students cs WHERE cs.class_id = ev.class_id AND cs.id = ?)", id),
			)
		},
		RoleParent: func(id string) Predicate {
			return Or(
				Cond("ev.class_id IS NULL"),
				Cond("EXISTS (SELECT 1 FROM students cs WHERE cs.class_id = ev.class_id AND cs.parent_id = ?)", id),
			)
		},
		RoleAnonymous: func(string) Predicate {
			return Cond("ev.class_id IS NULL")
		},
	},
}
