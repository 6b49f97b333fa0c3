package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil similarity service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Reports: &mockReportService{}})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingSimilarityService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(newTestServerPorts())
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil similarity service returns error", func(t *testing.T) {
		ports := &Ports{Reports: &mockReportService{}}
		assert.ErrorIs(t, ports.Validate(), ErrMissingSimilarityService)
	})

	t.Run("nil report service returns error", func(t *testing.T) {
		ports := &Ports{Similarity: &mockSimilarityService{}}
		assert.ErrorIs(t, ports.Validate(), ErrMissingReportService)
	})

	t.Run("classification is optional", func(t *testing.T) {
		assert.NoError(t, newTestServerPorts().Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := newTestServerPorts()
		ports.Classification = &mockClassificationService{}
		assert.NoError(t, ports.Validate())
	})
}
