// Package groups manages Canvas group categories, groups and memberships.
//
// The main entry point is SyncRoster, which takes the semicolon-delimited
// roster export used for lab assignments (canvas_id;group_number;name) and
// materializes it in Canvas: the group category and the numbered groups are
// created on demand, and a student who is already a member of their group
// (HTTP 409) is left alone.
package groups
