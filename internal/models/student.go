package models

// Student represents a learner registered in the register. Students are
// never edited or removed once created.
type Student struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	RollNumber string `json:"rollNumber"`
	Class      string `json:"class"`
	Email      string `json:"email"`
}

// SelectorLabel renders the student as shown in the student selector.
func (s Student) SelectorLabel() string {
	return s.RollNumber + " - " + s.Name + " (" + s.Class + ")"
}
