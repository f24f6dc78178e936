// Package handlers contains the HTTP handlers of the content pages.
package handlers
