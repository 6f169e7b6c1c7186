package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testManifest = `<?xml version="1.0" encoding="UTF-8"?>
<manifest identifier="m" xmlns="http://www.imsglobal.org/xsd/imscp_v1p1"
          xmlns:adlcp="http://www.adlnet.org/xsd/adlcp_v1p3">
  <metadata><schema>ADL SCORM</schema><schemaversion>2004</schemaversion></metadata>
  <organizations default="org">
    <organization identifier="org">
      <title>Safety</title>
      <item identifier="mod1" identifierref="res1">
        <title>Module 1</title>
        <item identifier="les1" identifierref="res2"><title>Lesson 1</title></item>
      </item>
      <item identifier="orphan" identifierref="missing"><title>Orphan</title></item>
    </organization>
  </organizations>
  <resources>
    <resource identifier="res1" type="webcontent" adlcp:scormType="sco" href="module1/index.html"/>
    <resource identifier="res2" type="webcontent" adlcp:scormType="sco" href="lesson1.html"/>
  </resources>
</manifest>`

const testPage = `<!DOCTYPE html><html><head></head><body><p>course</p></body></html>`

// writeTree writes files (relative slash paths) under a temp dir and returns it
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}
