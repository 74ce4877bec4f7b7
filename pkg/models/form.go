package models

// Field identifies one input of the signup form.
type Field string

const (
	FieldName        Field = "name"
	FieldEmail       Field = "email"
	FieldPhone       Field = "phone"
	FieldFitnessGoal Field = "fitnessGoal"
)

// Fields lists every form field in display order.
var Fields = []Field{FieldName, FieldEmail, FieldPhone, FieldFitnessGoal}

// Valid reports whether f is a known field identifier.
func (f Field) Valid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

// FormRecord represents the values entered in the landing page wizard
type FormRecord struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	FitnessGoal string `json:"fitnessGoal"`
}

// Get returns the value stored for f.
func (r FormRecord) Get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldEmail:
		return r.Email
	case FieldPhone:
		return r.Phone
	case FieldFitnessGoal:
		return r.FitnessGoal
	}
	return ""
}

// Set stores value under f. Unknown fields are ignored.
func (r *FormRecord) Set(f Field, value string) {
	switch f {
	case FieldName:
		r.Name = value
	case FieldEmail:
		r.Email = value
	case FieldPhone:
		r.Phone = value
	case FieldFitnessGoal:
		r.FitnessGoal = value
	}
}

// IsEmpty reports whether every field is blank.
func (r FormRecord) IsEmpty() bool {
	return r == FormRecord{}
}
