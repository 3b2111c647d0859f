package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Decode Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryDecode,
		Message:  "Invalid tree description",
		Detail:   "Elements are objects with a tag and optional props and children; text nodes are objects with a value; bare strings and numbers are text values.",
	},
	"E002": {
		Category: CategoryDecode,
		Message:  "Tree file not readable",
		Detail:   "The tree description file does not exist or cannot be read.",
	},
	"E003": {
		Category: CategoryDecode,
		Message:  "Malformed tree file",
		Detail:   "The file is not valid JSON or YAML.",
	},

	// ============================================
	// Configuration Errors (E020-E039)
	// ============================================

	"E020": {
		Category: CategoryConfig,
		Message:  "Invalid reconcile.json",
		Detail:   "The configuration file could not be parsed as JSON.",
	},
	"E021": {
		Category: CategoryConfig,
		Message:  "Invalid log level",
		Detail:   "log.level must be one of debug, info, warn or error.",
	},
	"E022": {
		Category: CategoryConfig,
		Message:  "Invalid log format",
		Detail:   "log.format must be text or json.",
	},
	"E023": {
		Category: CategoryConfig,
		Message:  "Invalid text compare mode",
		Detail:   "reconcile.textCompare must be live or descriptions.",
	},
	"E024": {
		Category: CategoryConfig,
		Message:  "Invalid watch debounce",
		Detail:   "watch.debounce must be a non-negative duration such as 50ms.",
	},
	"E025": {
		Category: CategoryConfig,
		Message:  "Invalid inspector address",
		Detail:   "inspector.addr must be a host:port pair.",
	},

	// ============================================
	// Watch Errors (E040-E059)
	// ============================================

	"E040": {
		Category: CategoryWatch,
		Message:  "File watcher failed to start",
		Detail:   "The file system watcher could not be created or could not watch the requested path.",
	},
	"E041": {
		Category: CategoryWatch,
		Message:  "File watcher error",
		Detail:   "The file system watcher reported an error while running.",
	},

	// ============================================
	// Inspector Errors (E060-E079)
	// ============================================

	"E060": {
		Category: CategoryInspector,
		Message:  "Inspector failed to listen",
		Detail:   "The inspector HTTP server could not bind its address. Another process may be using the port.",
	},
	"E061": {
		Category: CategoryInspector,
		Message:  "WebSocket upgrade failed",
		Detail:   "The inspector could not upgrade the request to a WebSocket connection.",
	},

	// ============================================
	// CLI Errors (E080-E099)
	// ============================================

	"E080": {
		Category: CategoryCLI,
		Message:  "Missing tree file",
		Detail:   "The command needs at least one tree description file.",
	},
	"E081": {
		Category: CategoryCLI,
		Message:  "Unknown output format",
		Detail:   "The output format must be html, json or stats.",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
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
