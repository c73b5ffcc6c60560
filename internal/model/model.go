// Package model defines the student records kept by rollbook: staff
// accounts and students in SQLite, and the single school a deployment
// serves, which lives in a file beside the database.
package model

// Field limits, in bytes.
const (
	MaxCredentialLen = 45
	MaxNameLen       = 65
)

// Table and column names of the accounts table.
const (
	AccountsTable  = "accounts"
	AccountIDCol   = "acc_id"
	AccountUserCol = "acc_user"
	AccountPassCol = "acc_pass"
)

// Table and column names of the students table.
const (
	StudentsTable   = "students"
	StudentIDCol    = "st_id"
	StudentFirstCol = "st_first"
	StudentLastCol  = "st_last"
	StudentGPACol   = "st_gpa"
)

// Account is a staff login. A zero ID means the account has not been saved.
type Account struct {
	ID       int64  `json:"id"`
	Username string `json:"username" validate:"maxbytes=45"`
	Password string `json:"-" validate:"maxbytes=45"`
}

// Validate reports ErrInvalidRecord when a credential is longer than
// MaxCredentialLen bytes.
func (a Account) Validate() error {
	return Validate(a)
}

// School is the one school a deployment serves. It is read from the school
// file and never stored in the database.
type School struct {
	ID   int    `json:"id" yaml:"id" toml:"id"`
	Name string `json:"name" yaml:"name" toml:"name" validate:"required,maxbytes=65"`
}

// Validate reports ErrInvalidRecord when the name is empty or longer than
// MaxNameLen bytes.
func (s School) Validate() error {
	return Validate(s)
}

// Student is a student attending the school. GPA is not range checked.
type Student struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name" validate:"maxbytes=65"`
	LastName  string  `json:"last_name" validate:"maxbytes=65"`
	GPA       float64 `json:"gpa"`
}

// Validate reports ErrInvalidRecord when a name is longer than MaxNameLen
// bytes. Empty names pass; the schema rejects them on save.
func (s Student) Validate() error {
	return Validate(s)
}

// FullName returns "First Last".
func (s Student) FullName() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}
