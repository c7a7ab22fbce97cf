// Package validation validates configuration structs using struct tags.
package validation
