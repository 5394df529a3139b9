// Package health provides liveness and readiness probes.
//
// Liveness only says the process is up. Readiness runs every registered
// component check concurrently, each bounded by the checker's timeout, and
// answers 503 when any of them fails. The server registers the model
// endpoint probe as the "upstream" check.
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("upstream", func(ctx context.Context) error { ... })
//	router.Get("/live", checker.LivenessHandler())
//	router.Get("/ready", checker.ReadinessHandler())
package health
