package directory

import (
	"encoding/json"
	"fmt"
)

// Envelope is the wire form of a mutation: {"type": "ADD_BOOKMARK", "payload": "7"}.
// Payload shapes mirror the typed mutations: a bare bool, string, number,
// list or employee object depending on the type.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// DecodeMutation turns a wire envelope into a typed mutation.
func DecodeMutation(env Envelope) (Mutation, error) {
	switch env.Type {
	case KindSetLoading:
		var v bool
		return decodePayload(env, &v, func() Mutation { return SetLoading{Loading: v} })
	case KindSetEmployees:
		var v []Employee
		return decodePayload(env, &v, func() Mutation { return SetEmployees{Employees: v} })
	case KindSetError:
		var v *string
		return decodePayload(env, &v, func() Mutation {
			if v == nil {
				return SetError{}
			}
			return SetError{Message: *v}
		})
	case KindAddBookmark:
		var v string
		return decodePayload(env, &v, func() Mutation { return AddBookmark{ID: v} })
	case KindRemoveBookmark:
		var v string
		return decodePayload(env, &v, func() Mutation { return RemoveBookmark{ID: v} })
	case KindSetSearchQuery:
		var v string
		return decodePayload(env, &v, func() Mutation { return SetSearchQuery{Query: v} })
	case KindSetSelectedDepartments:
		var v []string
		return decodePayload(env, &v, func() Mutation { return SetSelectedDepartments{Departments: v} })
	case KindSetSelectedRatings:
		var v []int
		return decodePayload(env, &v, func() Mutation { return SetSelectedRatings{Ratings: v} })
	case KindSetCurrentPage:
		var v int
		return decodePayload(env, &v, func() Mutation { return SetCurrentPage{Page: v} })
	case KindUpdateEmployee:
		var v Employee
		return decodePayload(env, &v, func() Mutation { return UpdateEmployee{Employee: v} })
	case KindAddEmployee:
		var v Employee
		return decodePayload(env, &v, func() Mutation { return AddEmployee{Employee: v} })
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMutation, env.Type)
	}
}

func decodePayload(env Envelope, dst any, build func() Mutation) (Mutation, error) {
	if len(env.Payload) == 0 {
		return nil, fmt.Errorf("%w: %s requires a payload", ErrInvalidPayload, env.Type)
	}
	if err := json.Unmarshal(env.Payload, dst); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, env.Type, err)
	}
	return build(), nil
}
