package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/course-navigator/internal/schemas"
)

func TestValidateLinksFile(t *testing.T) {
	root := writeTree(t, map[string]string{
		"good.json": `[{"title":"Intro","identifier":"i1","parentIndex":-1,"href":"","scormType":"",` +
			`"scormVersion":"1.2","masteryScore":"","maxTimeAllowed":"","timeLimitAction":"","dataFromLms":"",` +
			`"packageRelative":null,"serverRelative":null}]`,
		"bad.json":    `[{"title":""}]`,
		"schema.json": `{"type":"array","maxItems":0}`,
	})

	assert.NoError(t, validateLinksFile(filepath.Join(root, "good.json"), ""))

	err := validateLinksFile(filepath.Join(root, "bad.json"), "")
	var validationErr *schemas.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, err.Error(), "does not validate")

	// External schema file
	err = validateLinksFile(filepath.Join(root, "good.json"), filepath.Join(root, "schema.json"))
	assert.True(t, errors.As(err, &validationErr))

	_, statErr := os.Stat(filepath.Join(root, "missing.json"))
	require.True(t, os.IsNotExist(statErr))
	assert.ErrorContains(t, validateLinksFile(filepath.Join(root, "missing.json"), ""), "failed to read")
}
