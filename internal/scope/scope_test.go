package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholara/scholara-api/internal/models"
)

func classID(v int64) *int64 {
	return &v
}

func TestForUnknownRoleIsRefused(t *testing.T) {
	_, err := For(Caller{UserID: "u1", Role: "principal"})
	require.Error(t, err)

	_, err = For(Caller{UserID: "u1"})
	require.Error(t, err)
}

func TestAdminScopeIsUnrestricted(t *testing.T) {
	s, err := For(Caller{UserID: "admin1", Role: models.RoleAdmin})
	require.NoError(t, err)

	for _, clause := range []Clause{
		s.Students(), s.Teachers(), s.Parents(), s.Classes(),
		s.Lessons(), s.Assessments(), s.Results(), s.Calendar(),
	} {
		assert.True(t, clause.Empty())
	}
}

func TestTeacherScopeBindsOwnLessons(t *testing.T) {
	s, err := For(Caller{UserID: "teacher1", Role: models.RoleTeacher})
	require.NoError(t, err)

	students := s.Students()
	assert.Contains(t, students.Cond, "l.teacher_id = ?")
	assert.Equal(t, []interface{}{"teacher1"}, students.Args)

	lessons := s.Lessons()
	assert.Equal(t, "lessons.teacher_id = ?", lessons.Cond)

	assessments := s.Assessments()
	assert.Equal(t, "l.teacher_id = ?", assessments.Cond)
}

func TestTeacherScopeTeachersWithoutClassIsSelfOnly(t *testing.T) {
	s, err := For(Caller{UserID: "teacher1", Role: models.RoleTeacher})
	require.NoError(t, err)

	clause := s.Teachers()
	assert.Equal(t, "teachers.id = ?", clause.Cond)
	assert.Equal(t, []interface{}{"teacher1"}, clause.Args)

	s, err = For(Caller{UserID: "teacher1", Role: models.RoleTeacher, ClassID: classID(4)})
	require.NoError(t, err)
	clause = s.Teachers()
	assert.Contains(t, clause.Cond, "l.class_id = ?")
	assert.Equal(t, []interface{}{"teacher1", int64(4)}, clause.Args)
}

func TestStudentScopeUsesAssignedClass(t *testing.T) {
	s, err := For(Caller{UserID: "student1", Role: models.RoleStudent, ClassID: classID(1)})
	require.NoError(t, err)

	lessons := s.Lessons()
	assert.Equal(t, "lessons.class_id = ?", lessons.Cond)
	assert.Equal(t, []interface{}{int64(1)}, lessons.Args)

	students := s.Students()
	assert.Contains(t, students.Cond, "students.id = ?")
	assert.Contains(t, students.Cond, "students.class_id = ?")

	results := s.Results()
	assert.Equal(t, "r.student_id = ?", results.Cond)
	assert.Equal(t, []interface{}{"student1"}, results.Args)
}

// A student without an assigned class must reach no class-scoped rows at
// all, never all rows.
func TestStudentScopeWithoutClassFailsClosed(t *testing.T) {
	s, err := For(Caller{UserID: "student1", Role: models.RoleStudent})
	require.NoError(t, err)

	for _, clause := range []Clause{s.Teachers(), s.Classes(), s.Lessons(), s.Assessments()} {
		assert.Equal(t, "FALSE", clause.Cond)
		assert.Empty(t, clause.Args)
	}

	// Own row stays reachable.
	assert.Equal(t, "students.id = ?", s.Students().Cond)
	// School-wide calendar entries stay visible.
	assert.Equal(t, "class_id IS NULL", s.Calendar().Cond)
}

func TestParentScopeFollowsChildren(t *testing.T) {
	s, err := For(Caller{UserID: "parent1", Role: models.RoleParent})
	require.NoError(t, err)

	students := s.Students()
	assert.Equal(t, "students.parent_id = ?", students.Cond)

	lessons := s.Lessons()
	assert.Contains(t, lessons.Cond, "st.parent_id = ?")
	assert.Equal(t, []interface{}{"parent1"}, lessons.Args)

	results := s.Results()
	assert.Contains(t, results.Cond, "r.student_id IN")

	parents := s.Parents()
	assert.Equal(t, "parents.id = ?", parents.Cond)
}
