package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/course-navigator/internal/types"
)

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultListLimit},
		{-5, DefaultListLimit},
		{1, 1},
		{MaxListLimit, MaxListLimit},
		{MaxListLimit + 1, MaxListLimit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeLimit(tt.in), "limit %d", tt.in)
	}
}

func TestEncodeLinks_NilIsEmptyArray(t *testing.T) {
	data, err := encodeLinks(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestEncodeDecodeLinks(t *testing.T) {
	pkg := "index.html?studentId=1"
	links := []types.NavigationLink{
		{Title: "Intro", Identifier: "i1", ParentIndex: types.NoParent, Href: "index.html", PackageRelative: &pkg},
		{Title: "Child", Identifier: "i2", ParentIndex: 0},
	}

	data, err := encodeLinks(links)
	require.NoError(t, err)

	decoded, err := decodeLinks(data)
	require.NoError(t, err)
	assert.Equal(t, links, decoded)
}

func TestDecodeLinks_Empty(t *testing.T) {
	links, err := decodeLinks(nil)
	require.NoError(t, err)
	assert.NotNil(t, links)
	assert.Empty(t, links)
}

func TestDecodeLinks_Invalid(t *testing.T) {
	_, err := decodeLinks([]byte(`{not json`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal links")
}
