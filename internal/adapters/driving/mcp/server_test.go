package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	srv, err := NewServer(&Ports{Retrieval: &mockRetrieval{}})
	require.NoError(t, err)
	assert.NotNil(t, srv)
}

func TestNewServer_MissingRetrieval(t *testing.T) {
	_, err := NewServer(&Ports{})
	assert.ErrorIs(t, err, ErrMissingRetrievalService)
}

func TestPortsValidate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingRetrievalService)
	assert.NoError(t, (&Ports{Retrieval: &mockRetrieval{}}).Validate())
}
