// Package classroom provisions and tears down the walkthrough environment.
//
// Setup creates a per-user database (named classroom_<user>_<course>, with
// the username sanitized to alphanumerics) in both the legacy catalog and
// the governed target catalog, and seeds the sample movies table into the
// legacy copy with every column stored as TEXT. Cleanup mirrors the course
// reset script: it walks every catalog and drops every database carrying
// the user's prefix, cascading to tables, rows and grants.
//
// Both helpers are idempotent, so a learner can re-run a broken lesson from
// the top.
package classroom
