// Package privacy screens user messages for personal information.
//
// Screening reuses the pattern set of the log redactor, so anything that
// would be masked in a log line is also removed from a message before the
// conversation store or the model ever sees it.
package privacy
