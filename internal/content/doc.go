// Package content provides read access to the content items that pdfmail
// prints and mails.
//
// Items live in the content_items table. Store reads and writes them through
// pgx, Cached fronts any Reader with a cache (Redis or in-memory), and
// Migrations returns the goose migrations that create the table.
package content
