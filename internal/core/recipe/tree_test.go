package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTreeLookups(t *testing.T) {
	root, err := ParseTree(`<?xml version="1.0"?>
<recipe>
  <!-- comment -->
  <meta><summary>deep</summary></meta>
  <section name="A">one</section>
  <section name="B">two</section>
</recipe>`)
	require.NoError(t, err)

	assert.Equal(t, "recipe", root.Name)
	assert.Nil(t, root.Child("summary"))
	assert.Equal(t, "deep", root.Find("summary").Text())
	assert.Len(t, root.Children("section"), 2)

	name, ok := root.Children("section")[1].Attr("name")
	assert.True(t, ok)
	assert.Equal(t, "B", name)

	var missing *Node
	assert.Nil(t, missing.Find("anything"))
	assert.Equal(t, "", missing.Text())
	assert.Nil(t, missing.Lines())
}

func TestParseTreeRejects(t *testing.T) {
	for name, raw := range map[string]string{
		"prose before root": "Here you go: <recipe></recipe>",
		"two roots":         "<a></a><b></b>",
		"unclosed":          "<a><b></b>",
		"empty":             "   ",
		"bad entity":        "<a>fish &nbsp; chips</a>",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTree(raw)
			assert.Error(t, err)
		})
	}
}

func TestLinesSplitsChildElements(t *testing.T) {
	root, err := ParseTree("<notes>intro\n<note>first</note><variation>second</variation>\n- third</notes>")
	require.NoError(t, err)

	assert.Equal(t, []string{"intro", "first", "second", "third"}, cleanLines(root.Lines()))
}

func TestParseLenientTreeAcceptsBareAmpersands(t *testing.T) {
	root, err := ParseLenientTree("<a>Salt & pepper, fish &nbsp;&amp; chips &#233; &#x41; <![CDATA[x & y]]></a>")
	require.NoError(t, err)

	assert.Equal(t, "Salt & pepper, fish  & chips é A x & y", root.Text())
}

func TestParseLenientTreeStillRejectsBrokenStructure(t *testing.T) {
	for name, raw := range map[string]string{
		"two roots":  "<a></a><b></b>",
		"unclosed":   "<a><b></b>",
		"stray end":  "<a></a></b>",
		"empty":      "",
		"only prose": "no markup & nothing else",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLenientTree(raw)
			assert.Error(t, err)
		})
	}
}

func TestEscapeBareAmpersands(t *testing.T) {
	cases := map[string]string{
		"Salt & pepper":      "Salt &amp; pepper",
		"R&D":                "R&amp;D",
		"&amp; &lt; &nbsp;":  "&amp; &lt; &nbsp;",
		"&#38; &#x26; &#;":   "&#38; &#x26; &amp;#;",
		"a &b c;":            "a &amp;b c;",
		"<![CDATA[a & b]]>&": "<![CDATA[a & b]]>&amp;",
		"no ampersand":       "no ampersand",
	}
	for in, want := range cases {
		assert.Equal(t, want, escapeBareAmpersands(in), in)
	}
}

func TestLinesKeepsInlineElementsOnTheirLine(t *testing.T) {
	root, err := ParseTree("<section>- 1 lb <b>Pasta</b>, dried\n- 2 <em>cloves</em> garlic<ingredient>salt</ingredient>- oil</section>")
	require.NoError(t, err)

	assert.Equal(t, []string{"1 lb Pasta, dried", "2 cloves garlic", "salt", "oil"}, cleanLines(root.Lines()))
}
