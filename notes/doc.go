// Package notes holds the structured meeting notes model, its markdown
// rendering, and the output file writer.
package notes
