// Package cli wires the pipeline components behind a cobra command tree.
package cli
