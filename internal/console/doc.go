// Package console renders the updater status lines, progress bar and prompts.
package console
