package sales

import "fmt"

// NotFoundError is returned when an identifier does not resolve to a record.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %s", e.Resource, e.ID)
}

// BusinessRuleError is returned when an operation is rejected by a business
// rule on the record's current state.
type BusinessRuleError struct {
	Message string
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

// DataIntegrityError is returned when an operation would orphan dependent
// records. It carries enough structure for the presentation layer to render
// the failure without re-deriving any text.
type DataIntegrityError struct {
	Resource          string
	ResourceID        string
	DependentResource string
	Message           string
	Suggestion        string
	Code              string
}

func (e *DataIntegrityError) Error() string {
	return e.Message
}
