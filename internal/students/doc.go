// Package students exports the course roster.
//
// Canvas pages the users endpoint, so listing walks the Link header chain
// until every enrolled student has been seen. The roster can be written as
// CSV for import into grading spreadsheets.
package students
