// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Ingestor, IndexService and Answerer are the pipeline stages;
// SessionService composes them and holds the current index.
package services
