package log

// Field names used across fincmd log records.
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldKind      = "kind"
	FieldLabel     = "label"
	FieldAmount    = "amount"
	FieldError     = "error"
	FieldPath      = "path"
	FieldUndoDepth = "undo_depth"
)

// Component names.
const (
	ComponentApp     = "app"
	ComponentService = "service"
	ComponentStorage = "storage"
	ComponentConfig  = "config"
	ComponentTUI     = "tui"
)
