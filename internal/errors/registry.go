package errors

// Template defines a registered error code.
type Template struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

var registry = map[string]Template{
	// Configuration (E100-E199)

	"E101": {
		Category:   CategoryConfig,
		Message:    "Config file unreadable",
		Detail:     "The configuration file exists but could not be read or parsed as JSON.",
		Suggestion: "Check the file permissions and that loginform.json is valid JSON.",
	},
	"E102": {
		Category:   CategoryConfig,
		Message:    "Config file not found",
		Detail:     "The configuration file named with --config does not exist.",
		Suggestion: "Pass an existing path, or omit --config to use defaults and LOGINFORM_* variables.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "One or more configuration values failed validation.",
	},
	"E104": {
		Category:   CategoryConfig,
		Message:    "Invalid dev user",
		Detail:     "Dev API users are given as username:password.",
		Suggestion: "Use --user alice:secret, once per user.",
	},

	// Transport (E200-E299)

	"E201": {
		Category:   CategoryProtocol,
		Message:    "Listen failed",
		Detail:     "The server could not bind its listen address.",
		Suggestion: "Pick a free port with --addr or LOGINFORM_SERVER_ADDRESS.",
	},
	"E202": {
		Category:   CategoryProtocol,
		Message:    "Trace exporter unavailable",
		Detail:     "The OTLP trace exporter could not be created.",
		Suggestion: "Check tracing.endpoint, or disable tracing with tracing.enabled=false.",
	},

	// Runtime (E300-E399)

	"E301": {
		Category: CategoryRuntime,
		Message:  "Server stopped unexpectedly",
	},
	"E302": {
		Category:   CategoryRuntime,
		Message:    "Shutdown incomplete",
		Detail:     "Open sessions or requests did not finish within the shutdown timeout.",
		Suggestion: "Raise server.shutdown_timeout if clients need longer to drain.",
	},

	// GraphQL (E400-E499)

	"E401": {
		Category: CategoryGraphQL,
		Message:  "Invalid GraphQL schema",
		Detail:   "The dev API schema failed to parse or does not match its resolver.",
	},
}

// Codes returns every registered code.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or replaces a template.
func Register(code string, t Template) {
	registry[code] = t
}
