package rag

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
)

const maxFetchSize = 5 << 20

var httpClient = &http.Client{Timeout: 20 * time.Second}

// SupportedExtension reports whether the upload boundary accepts filename.
func SupportedExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md", ".pdf":
		return true
	}
	return false
}

// DocumentType returns the extension without the leading dot.
func DocumentType(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// ExtractText pulls raw text out of an uploaded file. Plain text and markdown
// pass through unchanged; PDFs go through the pdf reader page by page.
func ExtractText(filename string, content []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		return string(content), nil
	case ".pdf":
		return extractPDFText(content)
	default:
		return "", fmt.Errorf("unsupported file type: %s", filename)
	}
}

func extractPDFText(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	text, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

// FetchPageText downloads a web page and reduces it to its visible text.
func FetchPageText(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("invalid url: %s", rawURL)
	}

	resp, err := httpClient.Get(rawURL)
	if err != nil {
		log.Printf("❌ Error fetching URL content %s: %v", rawURL, err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("⚠️ URL %s returned status code: %d", rawURL, resp.StatusCode)
		return "", fmt.Errorf("failed to fetch URL content: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	limited := io.LimitReader(resp.Body, maxFetchSize)
	return HTMLToText(limited)
}

// HTMLToText extracts the text nodes of an HTML document, skipping script and
// style subtrees.
func HTMLToText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				sb.WriteString(text)
				sb.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(sb.String()), nil
}
