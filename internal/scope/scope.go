// Package scope builds the role-based restriction every listing query has
// to carry. For each entity family it answers one question: which rows can
// this caller reach through their own relationships. The answer is a SQL
// fragment with ? placeholders that repositories AND into their WHERE
// clause and rebind for PostgreSQL.
//
// Fragments reference the unaliased base table (students, teachers, ...).
// Exams, assignments and results assume the query joins the lesson chain
// as "lessons l". Calendar fragments use the bare class_id column shared
// by events and announcements.
package scope

import (
	"github.com/scholara/scholara-api/internal/models"
	appErrors "github.com/scholara/scholara-api/pkg/errors"
)

// Caller is the resolved identity a restriction is built for.
type Caller struct {
	UserID  string
	Role    models.UserRole
	ClassID *int64
}

// FromClaims adapts JWT claims into a Caller.
func FromClaims(claims *models.JWTClaims) Caller {
	if claims == nil {
		return Caller{}
	}
	return Caller{UserID: claims.UserID, Role: claims.Role, ClassID: claims.ClassID}
}

// Clause is a composable WHERE fragment. An empty Cond means "no
// restriction".
type Clause struct {
	Cond string
	Args []interface{}
}

// Empty reports whether the clause restricts anything.
func (c Clause) Empty() bool {
	return c.Cond == ""
}

// matchNone is the fail-closed clause: a required scoping attribute is
// missing, so the caller reaches no rows rather than all rows.
func matchNone() Clause {
	return Clause{Cond: "FALSE"}
}

// Scope resolves the permitted row closure per entity family. One
// implementation exists per role.
type Scope interface {
	Students() Clause
	Teachers() Clause
	Parents() Clause
	Classes() Clause
	Lessons() Clause
	Assessments() Clause
	Results() Clause
	Calendar() Clause
}

// For returns the scope for the caller's role. An unknown or missing role
// is refused outright; callers must deny the request, never fall back to
// a default scope.
func For(caller Caller) (Scope, error) {
	switch caller.Role {
	case models.RoleAdmin:
		return adminScope{}, nil
	case models.RoleTeacher:
		return teacherScope{caller: caller}, nil
	case models.RoleStudent:
		return studentScope{caller: caller}, nil
	case models.RoleParent:
		return parentScope{caller: caller}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrUnknownRole, "")
	}
}

type adminScope struct{}

func (adminScope) Students() Clause    { return Clause{} }
func (adminScope) Teachers() Clause    { return Clause{} }
func (adminScope) Parents() Clause     { return Clause{} }
func (adminScope) Classes() Clause     { return Clause{} }
func (adminScope) Lessons() Clause     { return Clause{} }
func (adminScope) Assessments() Clause { return Clause{} }
func (adminScope) Results() Clause     { return Clause{} }
func (adminScope) Calendar() Clause    { return Clause{} }

type teacherScope struct {
	caller Caller
}

func (s teacherScope) Students() Clause {
	return Clause{
		Cond: "students.class_id IN (SELECT l.class_id FROM lessons l WHERE l.teacher_id = ?)",
		Args: []interface{}{s.caller.UserID},
	}
}

// Teachers covers the caller plus colleagues teaching the caller's
// assigned class. Without an assigned class only the caller remains.
func (s teacherScope) Teachers() Clause {
	if s.caller.ClassID == nil {
		return Clause{Cond: "teachers.id = ?", Args: []interface{}{s.caller.UserID}}
	}
	return Clause{
		Cond: "(teachers.id = ? OR teachers.id IN (SELECT l.teacher_id FROM lessons l WHERE l.class_id = ?))",
		Args: []interface{}{s.caller.UserID, *s.caller.ClassID},
	}
}

func (s teacherScope) Parents() Clause {
	return Clause{
		Cond: "parents.id IN (SELECT st.parent_id FROM students st WHERE st.parent_id IS NOT NULL AND st.class_id IN (SELECT l.class_id FROM lessons l WHERE l.teacher_id = ?))",
		Args: []interface{}{s.caller.UserID},
	}
}

func (s teacherScope) Classes() Clause {
	return Clause{
		Cond: "(classes.supervisor_id = ? OR classes.id IN (SELECT l.class_id FROM lessons l WHERE l.teacher_id = ?))",
		Args: []interface{}{s.caller.UserID, s.caller.UserID},
	}
}

func (s teacherScope) Lessons() Clause {
	return Clause{Cond: "lessons.teacher_id = ?", Args: []interface{}{s.caller.UserID}}
}

func (s teacherScope) Assessments() Clause {
	return Clause{Cond: "l.teacher_id = ?", Args: []interface{}{s.caller.UserID}}
}

func (s teacherScope) Results() Clause {
	return Clause{Cond: "l.teacher_id = ?", Args: []interface{}{s.caller.UserID}}
}

func (s teacherScope) Calendar() Clause {
	return Clause{
		Cond: "(class_id IS NULL OR class_id IN (SELECT l.class_id FROM lessons l WHERE l.teacher_id = ?))",
		Args: []interface{}{s.caller.UserID},
	}
}

type studentScope struct {
	caller Caller
}

func (s studentScope) Students() Clause {
	if s.caller.ClassID == nil {
		return Clause{Cond: "students.id = ?", Args: []interface{}{s.caller.UserID}}
	}
	return Clause{
		Cond: "(students.id = ? OR students.class_id = ?)",
		Args: []interface{}{s.caller.UserID, *s.caller.ClassID},
	}
}

func (s studentScope) Teachers() Clause {
	if s.caller.ClassID == nil {
		return matchNone()
	}
	return Clause{
		Cond: "teachers.id IN (SELECT l.teacher_id FROM lessons l WHERE l.class_id = ?)",
		Args: []interface{}{*s.caller.ClassID},
	}
}

func (s studentScope) Parents() Clause {
	return Clause{
		Cond: "parents.id IN (SELECT st.parent_id FROM students st WHERE st.id = ? AND st.parent_id IS NOT NULL)",
		Args: []interface{}{s.caller.UserID},
	}
}

func (s studentScope) Classes() Clause {
	if s.caller.ClassID == nil {
		return matchNone()
	}
	return Clause{Cond: "classes.id = ?", Args: []interface{}{*s.caller.ClassID}}
}

func (s studentScope) Lessons() Clause {
	if s.caller.ClassID == nil {
		return matchNone()
	}
	return Clause{Cond: "lessons.class_id = ?", Args: []interface{}{*s.caller.ClassID}}
}

func (s studentScope) Assessments() Clause {
	if s.caller.ClassID == nil {
		return matchNone()
	}
	return Clause{Cond: "l.class_id = ?", Args: []interface{}{*s.caller.ClassID}}
}

func (s studentScope) Results() Clause {
	return Clause{Cond: "r.student_id = ?", Args: []interface{}{s.caller.UserID}}
}

func (s studentScope) Calendar() Clause {
	if s.caller.ClassID == nil {
		return Clause{Cond: "class_id IS NULL"}
	}
	return Clause{
		Cond: "(class_id IS NULL OR class_id = ?)",
		Args: []interface{}{*s.caller.ClassID},
	}
}

type parentScope struct {
	caller Caller
}

func (s parentScope) childClasses() string {
	return "(SELECT st.class_id FROM students st WHERE st.parent_id = ? AND st.class_id IS NOT NULL)"
}

func (s parentScope) Students() Clause {
	return Clause{Cond: "students.parent_id = ?", Args: []interface{}{s.caller.UserID}}
}

func (s parentScope) Teachers() Clause {
	return Clause{
		Cond: "teachers.id IN (SELECT l.teacher_id FROM lessons l JOIN students st ON st.class_id = l.class_id WHERE st.parent_id = ?)",
		Args: []interface{}{s.caller.UserID},
	}
}

func (s parentScope) Parents() Clause {
	return Clause{Cond: "parents.id = ?", Args: []interface{}{s.caller.UserID}}
}

func (s parentScope) Classes() Clause {
	return Clause{
		Cond: "classes.id IN " + s.childClasses(),
		Args: []interface{}{s.caller.UserID},
	}
}

func (s parentScope) Lessons() Clause {
	return Clause{
		Cond: "lessons.class_id IN " + s.childClasses(),
		Args: []interface{}{s.caller.UserID},
	}
}

func (s parentScope) Assessments() Clause {
	return Clause{
		Cond: "l.class_id IN " + s.childClasses(),
		Args: []interface{}{s.caller.UserID},
	}
}

func (s parentScope) Results() Clause {
	return Clause{
		Cond: "r.student_id IN (SELECT st.id FROM students st WHERE st.parent_id = ?)",
		Args: []interface{}{s.caller.UserID},
	}
}

func (s parentScope) Calendar() Clause {
	return Clause{
		Cond: "(class_id IS NULL OR class_id IN " + s.childClasses() + ")",
		Args: []interface{}{s.caller.UserID},
	}
}
