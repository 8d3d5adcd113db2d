// Package ui holds the terminal styles and the leveled logger used by the
// command layer. Library packages do not print; they return results and
// errors that the commands render through this package.
package ui
