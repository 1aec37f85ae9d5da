package models

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildResultRowExamDateComesFromStartTime(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	rec := ResultRecord{
		ID:             1,
		Score:          88,
		StudentName:    "Ana",
		StudentSurname: "Silva",
		ExamID:         sql.NullInt64{Int64: 7, Valid: true},
		ExamTitle:      sql.NullString{String: "Midterm", Valid: true},
		ExamStartTime:  sql.NullTime{Time: start, Valid: true},
		ExamClassName:  sql.NullString{String: "1A", Valid: true},
		ExamTeacherName: sql.NullString{String: "John", Valid: true},
	}

	row, ok := BuildResultRow(rec)
	require.True(t, ok)
	assert.Equal(t, AssessmentExam, row.Kind)
	assert.Equal(t, "Midterm", row.Title)
	assert.Equal(t, start, row.Date)
	assert.Equal(t, "1A", row.ClassName)
}

func TestBuildResultRowAssignmentDateComesFromStartDate(t *testing.T) {
	start := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	rec := ResultRecord{
		ID:                  2,
		Score:               70,
		AssignmentID:        sql.NullInt64{Int64: 3, Valid: true},
		AssignmentTitle:     sql.NullString{String: "Essay", Valid: true},
		AssignmentStartDate: sql.NullTime{Time: start, Valid: true},
		AssignmentClassName: sql.NullString{String: "2B", Valid: true},
	}

	row, ok := BuildResultRow(rec)
	require.True(t, ok)
	assert.Equal(t, AssessmentAssignment, row.Kind)
	assert.Equal(t, "Essay", row.Title)
	assert.Equal(t, start, row.Date)
}

func TestBuildResultRowsDropsOrphanRecords(t *testing.T) {
	recs := []ResultRecord{
		{ID: 1, ExamID: sql.NullInt64{Int64: 7, Valid: true}, ExamTitle: sql.NullString{String: "Midterm", Valid: true}},
		{ID: 2}, // neither exam nor assignment
		{ID: 3, AssignmentID: sql.NullInt64{Int64: 4, Valid: true}, AssignmentTitle: sql.NullString{String: "Essay", Valid: true}},
	}

	rows := BuildResultRows(recs)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].ID)
	assert.Equal(t, 3, rows[1].ID)
}

func TestNewPageRequestClampsAndComputesOffset(t *testing.T) {
	p := NewPageRequest(0, 10)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 0, p.Offset())

	p = NewPageRequest(4, 10)
	assert.Equal(t, 30, p.Offset())
}
