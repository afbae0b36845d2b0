// Package results persists one row per solver run and summarises how close
// each algorithm came to the best exact profit on the same instance.
package results
