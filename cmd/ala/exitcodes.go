package main

const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing topic id, bad config file)
	ExitDataError   = 3 // Data error (nothing to process, malformed input)
)
