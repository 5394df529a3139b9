// Package session holds conversations in memory.
//
// A Store keeps, per session ID, a bounded window of the most recent turns,
// the session's language preference and activity timestamps. Sessions are
// created on first use and never persisted; a restart forgets them.
//
// A Janitor removes sessions that have been idle longer than the configured
// age on a cron schedule:
//
//	store := session.NewStore(cfg.Sessions.MaxMessages, session.WithMetrics(collector))
//	janitor := session.NewJanitor(store, cfg.Sessions.CleanupSchedule, cfg.Sessions.MaxAge)
//	if err := janitor.Start(ctx); err != nil {
//		return err
//	}
package session
