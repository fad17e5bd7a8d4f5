// Package assignments manages Canvas course assignments.
//
// Push is the interesting operation: it is idempotent from the course
// plan's point of view. An assignment with a known ID is updated in place
// while it is still a draft; once published it is frozen and Push refuses
// to touch it (ErrPublished), because published assignments can already
// carry student submissions.
package assignments
