package timeline

import (
	"errors"
	"fmt"
)

// ContractError reports a placement command that violates the walker's
// contract, such as referencing an object that is not on the current frame.
// The builder fails fast instead of silently reordering.
type ContractError struct {
	Op       string
	ObjectID uint32
	Ref      uint32 // referenced object, 0 if none
	Message  string
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	if e.Ref != 0 {
		return fmt.Sprintf("%s object %d (ref %d): %s", e.Op, e.ObjectID, e.Ref, e.Message)
	}
	return fmt.Sprintf("%s object %d: %s", e.Op, e.ObjectID, e.Message)
}

// IsContractError reports whether err is or wraps a *ContractError.
func IsContractError(err error) bool {
	var ce *ContractError
	return errors.As(err, &ce)
}

func notPlaced(op string, id uint32) *ContractError {
	return &ContractError{Op: op, ObjectID: id, Message: "object is not placed"}
}

func refNotPlaced(op string, id, ref uint32) *ContractError {
	return &ContractError{Op: op, ObjectID: id, Ref: ref, Message: "referenced object is not placed"}
}
