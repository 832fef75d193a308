// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Provider Source Identifiers - these keys manage the registration and selection of scraping providers.
const (
	DefaultSource = "sources.default"
)

// Tracking Store - these keys configure the persistence of the tracked-show snapshot.
const (
	StorePath = "store.path"
)

// Download Behavior - these keys govern the resumable file fetcher.
const (
	DownloadsPath    = "downloads.path"
	FetchConcurrency = "fetch.concurrency"
	FetchResume      = "fetch.resume"
	FetchSubdir      = "fetch.subdir"
)

// Search Interaction - these keys define the UX parameters for search discovery.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern general CLI behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
