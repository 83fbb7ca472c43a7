package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E100-E199)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "cosmos.json contains a value that cannot be used.",
		DocURL:   "https://vango.dev/cosmos/errors/E100",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Failed to parse cosmos.json",
		Detail:   "The configuration file is not valid JSON.",
		DocURL:   "https://vango.dev/cosmos/errors/E101",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Failed to write cosmos.json",
		Detail:   "The configuration file could not be saved.",
		DocURL:   "https://vango.dev/cosmos/errors/E102",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "cosmos.json not found",
		Detail:   "No configuration file was found in the directory or any parent.",
		DocURL:   "https://vango.dev/cosmos/errors/E103",
	},

	// ============================================
	// Fixture Errors (E200-E299)
	// ============================================

	"E200": {
		Category: CategoryFixture,
		Message:  "Fixture not found",
		Detail:   "No fixture with this name exists in the configured fixture source.",
		DocURL:   "https://vango.dev/cosmos/errors/E200",
	},
	"E201": {
		Category: CategoryFixture,
		Message:  "Failed to parse fixture",
		Detail:   "Fixture files must be YAML or JSON objects with a component name and a fixture map.",
		DocURL:   "https://vango.dev/cosmos/errors/E201",
	},
	"E202": {
		Category: CategoryFixture,
		Message:  "Unknown component",
		Detail:   "The fixture references a component that is not registered.",
		DocURL:   "https://vango.dev/cosmos/errors/E202",
	},
	"E203": {
		Category: CategoryFixture,
		Message:  "Fixture source unavailable",
		Detail:   "The fixture directory or bucket could not be read.",
		DocURL:   "https://vango.dev/cosmos/errors/E203",
	},

	// ============================================
	// Store Errors (E300-E399)
	// ============================================

	"E300": {
		Category: CategoryStore,
		Message:  "Store factory missing",
		Detail:   "A store must be created for this fixture but no CreateStore factory was configured.",
		DocURL:   "https://vango.dev/cosmos/errors/E300",
	},
	"E301": {
		Category: CategoryStore,
		Message:  "No store for fixture",
		Detail:   "Actions can only be dispatched to fixtures rendered with a store.",
		DocURL:   "https://vango.dev/cosmos/errors/E301",
	},
	"E302": {
		Category: CategoryRender,
		Message:  "Proxy render failed",
		Detail:   "A proxy or the component panicked while rendering the fixture.",
		DocURL:   "https://vango.dev/cosmos/errors/E302",
	},
	"E303": {
		Category: CategoryStore,
		Message:  "Store does not accept actions",
		Detail:   "The store created for this fixture does not implement Dispatch.",
		DocURL:   "https://vango.dev/cosmos/errors/E303",
	},

	// ============================================
	// Server Errors (E400-E499)
	// ============================================

	"E400": {
		Category: CategoryServer,
		Message:  "Invalid action payload",
		Detail:   "Actions must be JSON objects with a non-empty type.",
		DocURL:   "https://vango.dev/cosmos/errors/E400",
	},
	"E401": {
		Category: CategoryServer,
		Message:  "WebSocket connection failed",
		Detail:   "The preview stream could not be established.",
		DocURL:   "https://vango.dev/cosmos/errors/E401",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
