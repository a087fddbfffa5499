package ffp

import (
	"errors"

	"github.com/gogpu/ffp/binding"
	"github.com/gogpu/ffp/compiler"
	"github.com/gogpu/ffp/regbank"
	"github.com/gogpu/ffp/settings"
	"github.com/gogpu/ffp/state"
)

// Errors returned by the packages of the module, re-exported for callers
// that only import ffp. Match them with errors.Is.
var (
	// ErrInvalidSlotKind is returned when a state slot is accessed with the
	// wrong value shape.
	ErrInvalidSlotKind = state.ErrInvalidSlotKind

	// ErrUnsupportedSettingsValue is returned when pipeline settings hold a
	// value no program can express.
	ErrUnsupportedSettingsValue = settings.ErrUnsupportedValue

	// ErrBankExhausted is returned when a program reads more parameters
	// than the register bank holds.
	ErrBankExhausted = regbank.ErrBankExhausted

	// ErrMissingBindingFunction is returned when a binding has no function.
	ErrMissingBindingFunction = binding.ErrMissingBindingFunction

	// ErrUnsupportedProgramModel is returned for source text no compiler
	// service recognises.
	ErrUnsupportedProgramModel = compiler.ErrUnsupportedProgramModel
)

var (
	// ErrSessionClosed is returned by every Session method after Close.
	ErrSessionClosed = errors.New("ffp: session closed")
)
