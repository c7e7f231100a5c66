// Package storage persists the scored player table between runs.
//
// Two stores are provided. FileStore writes the table as a JSON array of
// records (the default, ~/.local/share/nba-rank/NBA_player_info.json) and
// replaces the file atomically. SQLiteStore keeps the same rows in a single
// players table of a local SQLite database.
package storage
