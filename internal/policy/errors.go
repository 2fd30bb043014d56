package policy

import (
	"fmt"

	"github.com/lani-platform/lani/internal/domain"
)

// InvalidResourceTypeError is the panic value for a target whose kind the
// engine does not know. It signals a caller bug, never a runtime condition.
type InvalidResourceTypeError struct {
	Kind domain.Kind
}

func (e *InvalidResourceTypeError) Error() string {
	return fmt.Sprintf("policy: invalid resource type %q", string(e.Kind))
}

func mustKnowKind(k domain.Kind) {
	switch k {
	case domain.KindProject, domain.KindTask, domain.KindBudget, domain.KindTransaction:
		return
	}
	panic(&InvalidResourceTypeError{Kind: k})
}

// ParseKind converts user input into a Kind. Unlike the engine it returns
// an error, since the string comes from outside the program.
func ParseKind(s string) (domain.Kind, error) {
	switch k := domain.Kind(s); k {
	case domain.KindProject, domain.KindTask, domain.KindBudget, domain.KindTransaction:
		return k, nil
	}
	return "", fmt.Errorf("unknown resource type %q", s)
}
