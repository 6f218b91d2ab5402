package ops

import (
	"fmt"

	"github.com/Wazzaps/boldui/value"
)

// SchemaError marks an evaluation failure that must reject the whole
// scene: an out-of-range OpId or a cycle through the DAG.
type SchemaError struct {
	Op  value.OpID
	Msg string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error at %s: %s", e.Op, e.Msg)
}

// EvalError marks a runtime arithmetic failure: division by zero, a
// transcendental function on a non-numeric operand, or a missing
// variable. These never abort evaluation - the evaluator substitutes
// the zero value for the expected kind and records the error for the
// caller to log.
type EvalError struct {
	Op  value.OpID
	Msg string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("eval error at %s: %s", e.Op, e.Msg)
}

func badOperand(op value.OpID, kind Kind) *EvalError {
	return &EvalError{Op: op, Msg: fmt.Sprintf("bad operand for %s", kind)}
}
