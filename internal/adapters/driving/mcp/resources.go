package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for studymate resources.
	uriScheme = "studymate://"

	sessionURI = uriScheme + "session"
	indexURI   = uriScheme + "index"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         sessionURI,
		Name:        "session",
		Description: "Whether study materials are processed, with document, chunk and source counts",
		MIMEType:    "application/json",
	}, s.handleSessionResource)

	s.server.AddResource(&mcp.Resource{
		URI:         indexURI,
		Name:        "index",
		Description: "Header of the saved study index",
		MIMEType:    "application/json",
	}, s.handleIndexResource)
}

// sessionInfo is the JSON shape of the session resource.
type sessionInfo struct {
	Processed      bool     `json:"processed"`
	Documents      int      `json:"documents"`
	Chunks         int      `json:"chunks"`
	Sources        []string `json:"sources"`
	EmbeddingModel string   `json:"embedding_model,omitempty"`
}

// handleSessionResource returns a snapshot of the session.
func (s *Server) handleSessionResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	st := s.ports.Session.Status()
	info := sessionInfo{
		Processed:      st.Processed,
		Documents:      st.Documents,
		Chunks:         st.Chunks,
		Sources:        st.Sources,
		EmbeddingModel: st.EmbeddingModel,
	}
	if info.Sources == nil {
		info.Sources = []string{}
	}

	return jsonResource(req.Params.URI, info)
}

// indexInfo is the JSON shape of the index resource.
type indexInfo struct {
	Path       string    `json:"path"`
	ID         string    `json:"id"`
	Model      string    `json:"model"`
	Dimensions int       `json:"dimensions"`
	Documents  int       `json:"documents"`
	Chunks     int       `json:"chunks"`
	CreatedAt  time.Time `json:"created_at"`
}

// handleIndexResource returns the header of the saved index.
func (s *Server) handleIndexResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.IndexPath == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	info, err := s.ports.Session.Inspect(ctx, s.ports.IndexPath)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("inspecting index: %w", err)
	}

	return jsonResource(req.Params.URI, indexInfo{
		Path:       s.ports.IndexPath,
		ID:         info.ID,
		Model:      info.Model,
		Dimensions: info.Dimensions,
		Documents:  info.Documents,
		Chunks:     info.Chunks,
		CreatedAt:  info.CreatedAt,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
