package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/studymate/internal/connectors/filesystem"
	"github.com/custodia-labs/studymate/internal/core/domain"
)

// ProcessInput is the input schema for the process_materials tool.
type ProcessInput struct {
	PDFPaths []string `json:"pdf_paths,omitempty" jsonschema:"local PDF files or directories to process"`
	URL      string   `json:"url,omitempty" jsonschema:"a website to process"`
}

// ProcessOutput is the output schema for the process_materials tool.
type ProcessOutput struct {
	Message   string   `json:"message"`
	Documents int      `json:"documents"`
	Chunks    int      `json:"chunks"`
	Warnings  []string `json:"warnings,omitempty"`
	SavedTo   string   `json:"saved_to,omitempty"`
}

// AskInput is the input schema for the ask_question tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question about the processed study materials"`
	K        int    `json:"k,omitempty" jsonschema:"number of passages to retrieve (default 3)"`
}

// AskOutput is the output schema for the ask_question tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Model   string         `json:"model,omitempty"`
	Sources []SourceOutput `json:"sources"`
}

// SourceOutput is one passage an answer was drawn from.
type SourceOutput struct {
	Citation string  `json:"citation"`
	Score    float64 `json:"score"`
	Content  string  `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "process_materials",
		Description: "Process PDFs and/or a website into the study index, replacing the previous one",
	}, s.handleProcess)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question from the processed study materials as study notes",
	}, s.handleAsk)
}

// handleProcess handles the process_materials tool invocation.
func (s *Server) handleProcess(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcessInput,
) (*mcp.CallToolResult, ProcessOutput, error) {
	req := filesystem.NewProcessRequest(input.PDFPaths, input.URL)
	req.SaveTo = s.ports.IndexPath

	report, err := s.ports.Session.Process(ctx, req)
	var warnings []string
	if report != nil {
		for _, f := range report.Failures() {
			warnings = append(warnings, f.Err.Error())
		}
	}
	if err != nil {
		return nil, ProcessOutput{}, &toolError{err: err, warnings: warnings}
	}

	return nil, ProcessOutput{
		Message:   report.Summary(),
		Documents: report.Documents,
		Chunks:    report.Chunks,
		Warnings:  warnings,
		SavedTo:   report.SavedTo,
	}, nil
}

// handleAsk handles the ask_question tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Session.Ask(ctx, input.Question, input.K)
	if err != nil {
		return nil, AskOutput{}, &toolError{err: err}
	}

	output := AskOutput{
		Answer:  answer.Text,
		Model:   answer.Model,
		Sources: make([]SourceOutput, len(answer.Sources)),
	}
	for i := range answer.Sources {
		output.Sources[i] = SourceOutput{
			Citation: domain.CitationLabel(&answer.Sources[i].Chunk),
			Score:    answer.Sources[i].Score,
			Content:  answer.Sources[i].Chunk.Content,
		}
	}

	return nil, output, nil
}

// toolError reports a failed tool call with the message a user would see,
// followed by any per-source warnings.
type toolError struct {
	err      error
	warnings []string
}

func (e *toolError) Error() string {
	msg := domain.UserMessage(e.err)
	if len(e.warnings) > 0 {
		msg += " (" + strings.Join(e.warnings, "; ") + ")"
	}
	return msg
}

func (e *toolError) Unwrap() error {
	return e.err
}
