package rag

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedExtension(t *testing.T) {
	cases := map[string]bool{
		"notes.txt":    true,
		"README.md":    true,
		"manual.PDF":   true,
		"image.png":    false,
		"archive.zip":  false,
		"noextension":  false,
		"weird.txt.gz": false,
	}
	for filename, want := range cases {
		assert.Equal(t, want, SupportedExtension(filename), filename)
	}
}

func TestDocumentType(t *testing.T) {
	assert.Equal(t, "txt", DocumentType("notes.txt"))
	assert.Equal(t, "pdf", DocumentType("Manual.PDF"))
	assert.Equal(t, "", DocumentType("noextension"))
}

func TestExtractTextPassthrough(t *testing.T) {
	for _, filename := range []string{"a.txt", "b.md"} {
		text, err := ExtractText(filename, []byte("plain content"))
		require.NoError(t, err)
		assert.Equal(t, "plain content", text)
	}
}

func TestExtractTextUnsupported(t *testing.T) {
	_, err := ExtractText("binary.exe", []byte{0x00})
	require.Error(t, err)
}

func TestHTMLToText(t *testing.T) {
	page := `<html><head><style>body{color:red}</style><script>alert(1)</script></head>
	<body><h1>Title here</h1><p>First paragraph.</p><p>Second paragraph.</p></body></html>`
	text, err := HTMLToText(strings.NewReader(page))
	require.NoError(t, err)
	assert.Contains(t, text, "Title here")
	assert.Contains(t, text, "First paragraph.")
	assert.Contains(t, text, "Second paragraph.")
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color:red")
}

func TestFetchPageText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>Hello from the web.</p></body></html>"))
	}))
	defer ts.Close()

	text, err := FetchPageText(ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "Hello from the web.", text)
}

func TestFetchPageTextBadURL(t *testing.T) {
	_, err := FetchPageText("ftp://example.com/file")
	require.Error(t, err)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()
	_, err = FetchPageText(ts.URL)
	require.Error(t, err)
}
