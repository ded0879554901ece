package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstHeading(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		want  string
		found bool
	}{
		{"atx h1", "intro\n\n# Setup Guide\n\ntext", "Setup Guide", true},
		{"inline markup", "# The `folio` *tool*\n", "The folio tool", true},
		{"first of several", "# One\n\n# Two\n", "One", true},
		{"h2 only", "## Not a title\n", "", false},
		{"empty", "", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := FirstHeading([]byte(tc.body))
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOutline_AssignsUniqueSlugs(t *testing.T) {
	body := "# Title\n\n## Install & Run\n\n### Step 1\n\n## Install & Run\n\n##### Too deep\n"
	got := Outline([]byte(body))
	require.Equal(t, []Heading{
		{Level: 2, Text: "Install & Run", ID: "install-run"},
		{Level: 3, Text: "Step 1", ID: "step-1"},
		{Level: 2, Text: "Install & Run", ID: "install-run-1"},
	}, got)
}

func TestRender_HeadingAnchorsAndRawHTML(t *testing.T) {
	out, err := Render([]byte("## Hello World\n\n<div class=\"note\">raw</div>\n"))
	require.NoError(t, err)
	assert.Contains(t, out, `<h2 id="hello-world">Hello World</h2>`)
	assert.Contains(t, out, `<div class="note">raw</div>`)
}

func TestHasProse(t *testing.T) {
	assert.False(t, HasProse([]byte("")))
	assert.False(t, HasProse([]byte("# Only a title\n")))
	assert.True(t, HasProse([]byte("# Title\n\nSome words.\n")))
	assert.True(t, HasProse([]byte("## Section\n")))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "getting-started", Slugify("Getting Started!"))
	assert.Equal(t, "a_b-c", Slugify("  A_b -- c  "))
	assert.Equal(t, "", Slugify("???"))
}

func TestFirstHeading_KeepsPunctuation(t *testing.T) {
	got, ok := FirstHeading([]byte("# Don't \"panic\"\n"))
	require.True(t, ok)
	assert.Equal(t, `Don't "panic"`, got)
}
