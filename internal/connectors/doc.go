// Package connectors provides the sources study materials are read from:
// local PDF files (filesystem) and web pages (web).
package connectors
