// Package redis opens go-redis clients from REDIS_URL with pool limits,
// timeouts and startup retries, and exposes health and shutdown hooks.
// The content cache uses it when REDIS_URL is set.
package redis
