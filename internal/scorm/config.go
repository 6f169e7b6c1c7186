package scorm

// Default learner values substituted into launch URLs when the caller leaves a field empty.
const (
	DefaultStudentID   = "12345"
	DefaultStudentName = "John Doe"
	DefaultCourseID    = "67890"
)

// Config holds the runtime parameters of a parse. It is copied by value and never mutated.
type Config struct {
	BasePath    string // prefix joined before every resource href; empty means none
	StudentID   string
	StudentName string
	CourseID    string
	Debug       bool // enables debug logging of parse decisions
}

// DefaultConfig returns a Config with every field at its documented default.
func DefaultConfig() Config {
	return Config{
		StudentID:   DefaultStudentID,
		StudentName: DefaultStudentName,
		CourseID:    DefaultCourseID,
	}
}

// WithDefaults returns a copy of c with empty learner fields replaced by defaults.
func (c Config) WithDefaults() Config {
	if c.StudentID == "" {
		c.StudentID = DefaultStudentID
	}
	if c.StudentName == "" {
		c.StudentName = DefaultStudentName
	}
	if c.CourseID == "" {
		c.CourseID = DefaultCourseID
	}
	return c
}
