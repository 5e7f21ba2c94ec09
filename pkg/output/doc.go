// Package output provides reusable output formatting utilities for CLI commands.
//
// Commands support text (tabwriter tables) and JSON rendering without
// duplicating formatting logic.
package output
