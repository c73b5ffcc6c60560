package repository

import (
	"context"

	"github.com/rollbook/rollbook/internal/db"
	"github.com/rollbook/rollbook/internal/model"
)

// StudentSelect selects student columns in the order the student mapper
// expects. Statements passed to Students.Query and QueryAll start with it.
const StudentSelect = `SELECT st_id, st_first, st_last, st_gpa FROM students`

// Students stores model.Student rows.
type Students struct {
	*sqlRepository[model.Student]
}

var _ Repository[model.Student, int64] = (*Students)(nil)

// NewStudents returns a student repository on session.
func NewStudents(session *db.Session) *Students {
	return &Students{newSQLRepository(session, table[model.Student]{
		name:     model.StudentsTable,
		idColumn: model.StudentIDCol,
		columns:  []string{model.StudentFirstCol, model.StudentLastCol, model.StudentGPACol},
		scan:     scanStudent,
		values: func(s *model.Student) []any {
			return []any{nullIfEmpty(s.FirstName), nullIfEmpty(s.LastName), s.GPA}
		},
		id:    func(s *model.Student) int64 { return s.ID },
		setID: func(s *model.Student, id int64) { s.ID = id },
	})}
}

func scanStudent(row db.Scanner) (model.Student, error) {
	var s model.Student
	err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.GPA)
	return s, err
}

// ListByName returns all students ordered by last then first name.
func (r *Students) ListByName(ctx context.Context) ([]model.Student, error) {
	return r.QueryAll(ctx, StudentSelect+` ORDER BY st_last, st_first, st_id`)
}
