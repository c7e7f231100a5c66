// Package cli implements the command-line interface for nba-rank.
//
// The root command either scrapes a fresh player table (--update) or reloads
// the saved one, cleans and scores it, saves it, and prints the top players
// ranked by composite metric or by salary as text, JSON or a table.
package cli
