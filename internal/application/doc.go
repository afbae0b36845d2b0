// Package application provides application initialization and dependency wiring.
// It preloads datasets, opens the results log, configures the ILP solver and
// builds the runner, handlers, routers and HTTP server, keeping the main
// package focused on CLI parsing and orchestration.
package application
