package scorm

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildMap(t *testing.T, doc string) ResourceMap {
	t.Helper()
	tree, err := ParseTree([]byte(doc))
	require.NoError(t, err)
	return BuildResourceMap(tree)
}

func TestBuildResourceMap_UniqueIdentifiers(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<manifest><resources>")
	for i := 0; i < 7; i++ {
		fmt.Fprintf(&sb, `<resource identifier="r%d" href="page%d.html"/>`, i, i)
	}
	sb.WriteString("</resources></manifest>")

	m := buildMap(t, sb.String())
	assert.Len(t, m, 7)
	assert.Equal(t, "page3.html", m["r3"].Href)
	assert.Equal(t, "r3", m["r3"].ID)
}

func TestBuildResourceMap_LastDuplicateWins(t *testing.T) {
	m := buildMap(t, `<manifest><resources>
		<resource identifier="dup" href="first.html"/>
		<resource identifier="other" href="other.html"/>
		<resource identifier="dup" href="second.html"/>
	</resources></manifest>`)

	assert.Len(t, m, 2)
	assert.Equal(t, "second.html", m["dup"].Href)
}

func TestBuildResourceMap_SkipsMissingIdentifier(t *testing.T) {
	m := buildMap(t, `<manifest><resources>
		<resource href="anonymous.html"/>
		<resource identifier="" href="blank.html"/>
		<resource identifier="ok"/>
	</resources></manifest>`)

	require.Len(t, m, 1)
	assert.Equal(t, "", m["ok"].Href, "absent href is kept as empty")
}

func TestBuildResourceMap_ADLMetadata(t *testing.T) {
	m := buildMap(t, `<manifest xmlns:adlcp="http://www.adlnet.org/xsd/adlcp_rootv1p2"><resources>
		<resource identifier="r12" href="sco.html" adlcp:scormtype="sco"
			adlcp:masteryscore="80" adlcp:timelimitaction="exit,message"
			adlcp:maxtimeallowed="00:30:00" adlcp:datafromlms="mode=review"/>
		<resource identifier="r2004" href="asset.html" adlcp:scormType="asset"/>
	</resources></manifest>`)

	assert.Equal(t, Resource{
		ID:              "r12",
		Href:            "sco.html",
		ScormType:       "sco",
		MasteryScore:    "80",
		TimeLimitAction: "exit,message",
		MaxTimeAllowed:  "00:30:00",
		DataFromLMS:     "mode=review",
	}, m["r12"])
	assert.Equal(t, "asset", m["r2004"].ScormType)
	assert.Empty(t, m["r2004"].MasteryScore)
}

func TestBuildResourceMap_IsFlat(t *testing.T) {
	// resource elements are indexed wherever they appear, without nesting semantics
	m := buildMap(t, `<manifest>
		<resources><resource identifier="outer" href="a.html"><resource identifier="inner" href="b.html"/></resource></resources>
	</manifest>`)
	assert.Len(t, m, 2)
}
