package builtin

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pitwall-ai/pitwall/internal/regulations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAnswerer struct {
	mock.Mock
}

func (m *mockAnswerer) Answer(ctx context.Context, question string) (*regulations.Answer, error) {
	args := m.Called(ctx, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*regulations.Answer), args.Error(1)
}

func TestRegulationsQueryTool(t *testing.T) {
	answerer := new(mockAnswerer)
	answerer.On("Answer", mock.Anything, "How many points for a win?").Return(&regulations.Answer{
		Text:     "25 points are awarded for a win.",
		Attempts: 1,
		Latency:  42 * time.Millisecond,
		Citations: []regulations.Citation{
			{Source: "sporting.pdf", Excerpt: "25 points for first place"},
		},
		Settings: regulations.Settings{Shape: regulations.ShapeFactual},
	}, nil)

	tool := &RegulationsQueryTool{Answerer: answerer}

	raw, err := tool.Execute(context.Background(), json.RawMessage(`{"question":"How many points for a win?"}`))
	require.NoError(t, err)

	var payload struct {
		Status    string `json:"status"`
		Answer    string `json:"answer"`
		Citations []struct {
			Source string `json:"source"`
		} `json:"citations"`
		Metadata struct {
			Attempts int    `json:"attempts"`
			Shape    string `json:"shape"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))

	assert.Equal(t, "success", payload.Status)
	assert.Equal(t, "25 points are awarded for a win.", payload.Answer)
	require.Len(t, payload.Citations, 1)
	assert.Equal(t, "sporting.pdf", payload.Citations[0].Source)
	assert.Equal(t, 1, payload.Metadata.Attempts)
	assert.Equal(t, "factual", payload.Metadata.Shape)
	answerer.AssertExpectations(t)
}

func TestRegulationsQueryTool_BackendError(t *testing.T) {
	answerer := new(mockAnswerer)
	answerer.On("Answer", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	tool := &RegulationsQueryTool{Answerer: answerer}

	_, err := tool.Execute(context.Background(), json.RawMessage(`{"question":"anything"}`))
	require.Error(t, err)
}
