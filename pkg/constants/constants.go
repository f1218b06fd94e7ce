package constants

// CLIExtensionPrefix is the prefix used in user-facing output to refer to the CLI
const CLIExtensionPrefix = "coderadar"

// DefaultSchedulerIntervalMinutes is the default period between scheduled passes.
const DefaultSchedulerIntervalMinutes = 60
