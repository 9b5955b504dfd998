package profile

import (
	"regexp"
	"strings"
)

// Constraint is a format check applied to answers of matching questions.
type Constraint struct {
	Name    string
	Applies func(question string) bool
	Valid   func(answer string) bool
	Message string
}

var (
	emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)
	phonePattern = regexp.MustCompile(`^[\d\s+-]{8,}$`)
)

func labelContains(fragment string) func(string) bool {
	return func(question string) bool {
		return strings.Contains(strings.ToLower(question), fragment)
	}
}

// DefaultConstraints recognize email- and phone-shaped question labels.
var DefaultConstraints = []Constraint{
	{
		Name:    "email",
		Applies: labelContains("email"),
		Valid:   emailPattern.MatchString,
		Message: "Invalid email format",
	},
	{
		Name:    "phone",
		Applies: labelContains("phone"),
		Valid:   phonePattern.MatchString,
		Message: "Invalid phone format",
	},
}

// ValidateAnswer checks a trimmed answer against the blank rule and every
// constraint whose label pattern matches the question.
func ValidateAnswer(question, answer string, constraints []Constraint) error {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return invalid("Answer cannot be empty")
	}
	for _, c := range constraints {
		if c.Applies(question) && !c.Valid(answer) {
			return invalid(c.Message)
		}
	}
	return nil
}
