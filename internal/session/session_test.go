package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finscope/finscope/internal/common"
	"github.com/finscope/finscope/internal/llm"
	"github.com/finscope/finscope/internal/types"
)

type fakeProvider struct {
	calls    int
	lastReq  *llm.Request
	response string
	err      error
}

func (f *fakeProvider) GenerateContent(ctx context.Context, req *llm.Request) (string, error) {
	f.calls++
	f.lastReq = req
	return f.response, f.err
}

func (f *fakeProvider) Name() string {
	return "fake"
}

func testArtifact() *types.AnalysisArtifact {
	return &types.AnalysisArtifact{
		Summary:         "Designs consumer devices.",
		KeyTechnologies: []string{"custom silicon"},
		StrategicFocus:  "services growth",
		Risks:           []string{"supply chain concentration"},
		Opportunities:   []string{"wearables expansion"},
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	provider := &fakeProvider{}
	s := New(provider, common.GetLogger())

	for _, question := range []string{"", "   ", "\n\t"} {
		_, err := s.Ask(context.Background(), testArtifact(), question)
		assert.ErrorIs(t, err, types.ErrEmptyQuestion)
	}

	// Rejected before any provider call.
	assert.Equal(t, 0, provider.calls)
}

func TestAskGroundsPromptInArtifact(t *testing.T) {
	provider := &fakeProvider{response: "Its primary risk is supply chain concentration."}
	s := New(provider, common.GetLogger())

	answer, err := s.Ask(context.Background(), testArtifact(), "What is the biggest risk?")
	require.NoError(t, err)
	assert.Equal(t, "Its primary risk is supply chain concentration.", answer)

	require.NotNil(t, provider.lastReq)
	assert.Contains(t, provider.lastReq.UserContent, "Designs consumer devices.")
	assert.Contains(t, provider.lastReq.UserContent, "supply chain concentration")
	assert.Contains(t, provider.lastReq.UserContent, "Question: What is the biggest risk?")
	assert.Contains(t, provider.lastReq.SystemInstruction, "nothing else")
	assert.False(t, provider.lastReq.RequireJSON)
}

func TestAskProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("connection reset")}
	s := New(provider, common.GetLogger())

	_, err := s.Ask(context.Background(), testArtifact(), "Any risks?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
