package models

import "time"

// Announcement is school-wide when class_id is null, otherwise visible to
// the linked class's audience.
type Announcement struct {
	ID          int       `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Date        time.Time `db:"date" json:"date"`
	ClassID     *int      `db:"class_id" json:"class_id,omitempty"`
}

// AnnouncementRow is the announcement list view.
type AnnouncementRow struct {
	Announcement
	ClassName *string `db:"class_name" json:"class_name,omitempty"`
}

// AnnouncementFilter captures the recognised query keys of the list.
type AnnouncementFilter struct {
	Search string
	Page   int
}

// Event follows the same class linkage as announcements.
type Event struct {
	ID          int       `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
	ClassID     *int      `db:"class_id" json:"class_id,omitempty"`
}

// EventRow is the event list view.
type EventRow struct {
	Event
	ClassName *string `db:"class_name" json:"class_name,omitempty"`
}

// EventFilter captures the recognised query keys of the event list.
type EventFilter struct {
	Search string
	Page   int
}
