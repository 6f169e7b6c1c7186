package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/course-navigator/internal/types"
)

func courseTree(t *testing.T) string {
	t.Helper()
	return writeTree(t, map[string]string{
		"rise/safety/imsmanifest.xml":         testManifest,
		"rise/safety/scormcontent/index.html": testPage,
		"captivate/quiz/index.html":           testPage,
		"storyline/nolaunch/imsmanifest.xml":  testManifest,
	})
}

func TestScanCourses_JSON(t *testing.T) {
	root := courseTree(t)

	var buf bytes.Buffer
	require.NoError(t, scanCourses(context.Background(), root, scanOptions{Format: formatJSON}, &buf, zap.NewNop()))

	var courses []types.Course
	require.NoError(t, json.Unmarshal(buf.Bytes(), &courses))
	require.Len(t, courses, 2)
	assert.Equal(t, "captivate/quiz", courses[0].Path)
	assert.Empty(t, courses[0].ManifestPath)
	assert.Equal(t, "rise/safety", courses[1].Path)
	assert.Equal(t, "rise/safety/imsmanifest.xml", courses[1].ManifestPath)
	assert.Empty(t, courses[1].Links)
}

func TestScanCourses_WithLinks(t *testing.T) {
	root := courseTree(t)

	var buf bytes.Buffer
	err := scanCourses(context.Background(), root, scanOptions{Links: true, Concurrency: 2, Format: formatJSON}, &buf, zap.NewNop())
	require.NoError(t, err)

	var courses []types.Course
	require.NoError(t, json.Unmarshal(buf.Bytes(), &courses))
	require.Len(t, courses, 2)

	safety := courses[1]
	assert.Equal(t, "2004", safety.ScormVersion)
	require.Len(t, safety.Links, 2)
	assert.True(t, strings.HasPrefix(*safety.Links[0].PackageRelative, "module1/index.html?"))
	assert.True(t, strings.HasPrefix(*safety.Links[0].ServerRelative, filepath.ToSlash(root)+"/rise/safety/module1/index.html?"))
}

func TestScanCourses_Tree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, scanCourses(context.Background(), courseTree(t), scanOptions{Format: formatTree}, &buf, zap.NewNop()))
	assert.Contains(t, buf.String(), "COURSE CATALOG")
	assert.Contains(t, buf.String(), "Courses found: 2")
}

func TestScanCourses_NotDirectory(t *testing.T) {
	root := writeTree(t, map[string]string{"file.txt": "x"})
	err := scanCourses(context.Background(), root+"/file.txt", scanOptions{Format: formatJSON}, &bytes.Buffer{}, zap.NewNop())
	assert.ErrorContains(t, err, "not a directory")
}
