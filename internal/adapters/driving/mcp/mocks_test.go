package mcp

import (
	"context"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	report  *domain.ProcessReport
	answer  *domain.Answer
	info    *domain.IndexInfo
	status  domain.SessionStatus
	err     error
	request domain.ProcessRequest
	k       int
}

func (m *mockSessionService) Process(_ context.Context, req domain.ProcessRequest) (*domain.ProcessReport, error) {
	m.request = req
	return m.report, m.err
}

func (m *mockSessionService) Ask(_ context.Context, _ string, k int) (*domain.Answer, error) {
	m.k = k
	return m.answer, m.err
}

func (m *mockSessionService) Save(_ context.Context, _ string) (*domain.IndexInfo, error) {
	return m.info, m.err
}

func (m *mockSessionService) Load(_ context.Context, _ string) (*domain.IndexInfo, error) {
	return m.info, m.err
}

func (m *mockSessionService) Inspect(_ context.Context, _ string) (*domain.IndexInfo, error) {
	return m.info, m.err
}

func (m *mockSessionService) Status() domain.SessionStatus {
	return m.status
}
