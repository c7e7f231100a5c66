// Package pipeline assembles the player table from the statistics site and
// runs it through cleaning, scoring and persistence.
//
// Aggregate walks the league page, every team roster and every player's
// career page one request at a time. A player whose career page cannot be
// read is recorded as a Failure and left out of the table; the run carries
// on. Update and Reload are the two end-to-end flows used by the CLI.
package pipeline
