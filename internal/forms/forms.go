// Package forms validates the three HTML forms of the application and
// produces the field-level messages shown inline on the pages.
package forms

import (
	"strconv"
	"time"
)

const (
	RequiredMessage     = "This field is required."
	BothRequiredMessage = "Both fields are required."
	MatchMessage        = "Passwords must match."
	DateMessage         = "Not a valid date value."
	IntMessage          = "Not a valid integer value."
)

const dueDateLayout = "01/02/2006"

// Errors maps a field name to its validation message. Form-level errors use
// the "form" key.
type Errors map[string]string

type LoginForm struct {
	Name     string `form:"name"`
	Password string `form:"password"`
}

func (f *LoginForm) Validate() Errors {
	errs := Errors{}
	if f.Name == "" || f.Password == "" {
		errs["form"] = BothRequiredMessage
	}
	return errs
}

type RegisterForm struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
	Confirm  string `form:"confirm"`
}

func (f *RegisterForm) Validate() Errors {
	errs := Errors{}
	if f.Name == "" {
		errs["name"] = RequiredMessage
	}
	if f.Email == "" {
		errs["email"] = RequiredMessage
	}
	if f.Password == "" {
		errs["password"] = RequiredMessage
	}
	if f.Confirm == "" {
		errs["confirm"] = RequiredMessage
	} else if f.Confirm != f.Password {
		errs["confirm"] = MatchMessage
	}
	return errs
}

type TaskForm struct {
	Name     string `form:"name"`
	DueDate  string `form:"due_date"`
	Priority string `form:"priority"`
}

func (f *TaskForm) Validate() Errors {
	errs := Errors{}
	if f.Name == "" {
		errs["name"] = RequiredMessage
	}
	if f.DueDate == "" {
		errs["due_date"] = RequiredMessage
	} else if _, err := time.Parse(dueDateLayout, f.DueDate); err != nil {
		errs["due_date"] = DateMessage
	}
	if f.Priority == "" {
		errs["priority"] = RequiredMessage
	} else if _, err := strconv.Atoi(f.Priority); err != nil {
		errs["priority"] = IntMessage
	}
	return errs
}

// PriorityValue returns the numeric priority. Only meaningful after Validate
// reported no errors.
func (f *TaskForm) PriorityValue() int {
	n, _ := strconv.Atoi(f.Priority)
	return n
}

// DueDateValue returns the due date in canonical zero-padded MM/DD/YYYY
// form, so stored dates sort by fixed-width fields. Only meaningful after
// Validate reported no errors.
func (f *TaskForm) DueDateValue() string {
	d, err := time.Parse(dueDateLayout, f.DueDate)
	if err != nil {
		return f.DueDate
	}
	return d.Format(dueDateLayout)
}
