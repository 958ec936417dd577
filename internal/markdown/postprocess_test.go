package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

func process(t *testing.T, src string, opts Options) string {
	t.Helper()
	out, err := PostProcess([]byte(src), opts, nil)
	require.NoError(t, err)
	return string(out)
}

func TestPostProcess_HeadingWithLinkIsPrepended(t *testing.T) {
	got := process(t, `<h2 id="see-docs">See <a href="/docs/">docs</a></h2>`, testOptions())
	assert.Equal(t, `<h2 id="see-docs"><a href="#see-docs" aria-hidden="true" class="anchor"></a>See <a href="/docs/">docs</a></h2>`, got)
}

func TestPostProcess_AutolinkNone(t *testing.T) {
	opts := testOptions()
	opts.AutolinkHeadings = config.AutolinkNone
	got := process(t, `<h2 id="plain">Plain</h2>`, opts)
	assert.Equal(t, `<h2 id="plain">Plain</h2>`, got)
}

func TestPostProcess_CodeWithoutLanguage(t *testing.T) {
	got := process(t, "<pre><code>plain\n</code></pre>", testOptions())
	assert.Equal(t, "<pre class=\"language-text\"><code class=\"language-text\">plain\n</code></pre>", got)
}

func TestPostProcess_CustomCodePrefix(t *testing.T) {
	opts := testOptions()
	opts.CodeClassPrefix = "lang-"
	got := process(t, `<pre><code class="language-js">x</code></pre>`, opts)
	assert.Equal(t, `<pre class="lang-js"><code class="lang-js">x</code></pre>`, got)
}

func TestPostProcess_ExistingWrapperIsKept(t *testing.T) {
	src := `<div class="responsive-iframe"><iframe src="https://example.org/x"></iframe></div>`
	assert.Equal(t, src, process(t, src, testOptions()))
}

func TestPostProcess_ExternalLinksDisabled(t *testing.T) {
	opts := testOptions()
	opts.ExternalLinks = false
	got := process(t, `<a href="https://github.com/octo">gh</a>`, opts)
	assert.Equal(t, `<a href="https://github.com/octo">gh</a>`, got)
}

func TestPostProcess_ImageWithoutCaptions(t *testing.T) {
	opts := testOptions()
	opts.ShowCaptions = false
	opts.LazyImages = false
	got := process(t, `<p><img src="/a.png" alt="A"></p>`, opts)
	assert.Equal(t, `<p><img src="/a.png" alt="A"/></p>`, got)
}

func TestPostProcess_ImageInTextIsNotAFigure(t *testing.T) {
	got := process(t, `<p>Look <img src="/a.png" alt="A"> here</p>`, testOptions())
	assert.NotContains(t, got, "<figure")
	assert.Contains(t, got, `loading="lazy"`)
}

func TestPostProcess_UnknownRelativeAssetUntouched(t *testing.T) {
	out, err := PostProcess([]byte(`<a href="other.pdf">pdf</a>`), testOptions(), assetResolver(t))
	require.NoError(t, err)
	assert.Equal(t, `<a href="other.pdf">pdf</a>`, string(out))
}

func TestPostProcess_GistEmbed(t *testing.T) {
	got := process(t, `<p><code>gist: 1234abcd</code></p>`, testOptions())
	assert.Equal(t, `<script src="https://gist.github.com/octo/1234abcd.js"></script>`, got)
}
