// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - Normaliser: Extracts documents from raw PDF or HTML bytes
//   - Fetcher: Retrieves a web page
//   - Splitter: Splits documents into overlapping chunks
//   - EmbeddingService: Turns text into vectors
//   - VectorIndex: Holds chunk vectors and answers nearest-neighbour queries
//   - IndexStore: Persists an index snapshot for save/load
//   - ChatService: Sends one chat completion request
//   - ConfigStore: Application configuration
//   - PromptStore: User-customisable prompt templates
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
