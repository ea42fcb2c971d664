package diag

import (
	"fmt"
)

// Code is a compact numeric diagnostic identifier with a stable string form.
type Code uint16

const (
	// UnknownCode is the zero value; nothing should emit it on purpose.
	UnknownCode Code = 0

	// Comparison-synthesis diagnostics occupy the 4000 block.
	CmpInfo Code = 4000
	// CmpNotStruct: the comparison marker sits on a non-struct declaration.
	CmpNotStruct Code = 4001
	// CmpNotProperty: a field marker sits on a non-property declaration.
	CmpNotProperty Code = 4002
	// CmpSkipOnFunction: @skip_compare applied to a function-valued field.
	CmpSkipOnFunction Code = 4003
	// CmpSkipOnExternalBinding: @skip_compare combined with @external_binding.
	CmpSkipOnExternalBinding Code = 4004
	// CmpAllowanceNotFunction: @unsafe_fn_compare on a non-function field.
	CmpAllowanceNotFunction Code = 4005
	// CmpFunctionUnsupported: unmarked function-valued field in a compared struct.
	CmpFunctionUnsupported Code = 4006
	// CmpNoComparableFields: every stored field was excluded or none exist.
	CmpNoComparableFields Code = 4007
)

// String returns the canonical CMPxxxx form used in rendered output.
func (c Code) String() string {
	return fmt.Sprintf("CMP%04d", uint16(c))
}

// ID returns the lowercase identifier used for fix IDs and JSON output.
func (c Code) ID() string {
	return fmt.Sprintf("cmp%04d", uint16(c))
}
