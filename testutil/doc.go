// Package testutil provides shared fixture helpers for package tests.
package testutil
