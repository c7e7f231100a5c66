// Package scraper fetches and extracts basketball statistics pages.
//
// A Scraper walks three page kinds from the statistics site: the league team
// page (one anchor per team, giving roster URLs), a team roster page (player
// name, id and salary laid out as a flat run of table cells) and a player's
// career stats page (the last row of the career table). Page structure is
// described by a Layout so that selector and offset changes on the site are
// configuration edits rather than code changes.
//
// Structural mismatches are returned as *ExtractError. On league and roster
// pages they are meant to stop a run; a career page error only affects that
// player and is for the caller to record and skip.
package scraper
