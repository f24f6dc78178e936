// Package health serves liveness and readiness probes.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "db":   db.Healthcheck(pool),
//	    "jobs": job.Healthcheck(manager),
//	}))
//
// Responses are plain text unless the client sends Accept: application/json
// or ?format=json.
package health
