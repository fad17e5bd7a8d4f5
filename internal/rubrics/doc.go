// Package rubrics uploads grading rubrics authored as JSON files.
//
// A rubric file declares its expected total up front (total_points) and the
// validator cross-checks it against the sum of each criterion's best
// rating, so a typo in a single rating's points is caught before anything
// reaches Canvas.
package rubrics
