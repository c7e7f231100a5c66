// Package player holds the unified player table and the pure transformations
// applied to it after scraping.
//
// A Record joins roster data (id, name, team, salary) with career per-game
// statistics (minutes, points, rebounds, assists). Clean coerces salaries and
// drops rows with missing statistics; Score computes the composite metric used
// for ranking. Records are keyed internally by the site-assigned player id.
package player
