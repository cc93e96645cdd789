package domain

// Term is a course term offered by the association.
type Term struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}

// Teacher belongs to exactly one term.
type Teacher struct {
	ID     int64  `db:"id"`
	Name   string `db:"name"`
	TermID int64  `db:"term_id"`
	Bio    string `db:"bio"`
}

// Course binds a term and a teacher to a schedule and a price.
// Price is stored in the smallest currency unit.
type Course struct {
	ID        int64  `db:"id"`
	TermID    int64  `db:"term_id"`
	TeacherID int64  `db:"teacher_id"`
	Day       string `db:"day"`
	Time      string `db:"time"`
	Location  string `db:"location"`
	Topics    string `db:"topics"`
	Price     int64  `db:"price"`
}

// CourseDetails is a course joined with its term and teacher names for
// rendering.
type CourseDetails struct {
	Course
	TermName    string `db:"term_name"`
	TeacherName string `db:"teacher_name"`
}

// FAQ is an independent question/answer pair.
type FAQ struct {
	ID       int64  `db:"id"`
	Question string `db:"question"`
	Answer   string `db:"answer"`
}

// About holds the association description; the first row is the one shown.
type About struct {
	ID      int64  `db:"id"`
	Title   string `db:"title"`
	Content string `db:"content"`
}
