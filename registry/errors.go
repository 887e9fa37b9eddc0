package registry

import "fmt"

// ArityError is a fatal registration-time error: the signature's declared
// arity is inconsistent with its own inject_locale flag.
type ArityError struct {
	FTLName string
	Reason  string
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("registry: invalid arity for %q: %s", e.FTLName, e.Reason)
}

// CollisionError is a fatal registration-time error: two parameters of the
// same signature canonicalize to the same name.
type CollisionError struct {
	FTLName string
	ParamA  string
	ParamB  string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("registry: parameter collision in %q: %q and %q canonicalize to the same name", e.FTLName, e.ParamA, e.ParamB)
}

// FrozenError is a fatal registration-time error: Register was called on a
// registry that has already been frozen.
type FrozenError struct {
	FTLName string
}

func (e *FrozenError) Error() string {
	return fmt.Sprintf("registry: registry is frozen, cannot register %q", e.FTLName)
}

// DuplicateNameError is a fatal registration-time error: a function with
// this FTL name is already registered.
type DuplicateNameError struct {
	FTLName string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("registry: %q is already registered", e.FTLName)
}
