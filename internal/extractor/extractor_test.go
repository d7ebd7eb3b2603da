package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var longBody = strings.Repeat("Dental implants restore missing teeth. ", 5)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "main wins over article",
			html: `<html><body><nav>menu</nav><main>  Main   text
				here </main><article>article</article></body></html>`,
			want: "Main text here",
		},
		{
			name: "article when no main",
			html: `<html><body><article><p>Article</p> <p>body</p></article><div id="content">x</div></body></html>`,
			want: "Article body",
		},
		{
			name: "content id last",
			html: `<html><body><div id="content">Only	content</div></body></html>`,
			want: "Only content",
		},
		{
			name: "scripts dropped",
			html: `<main>Visible<script>var x = 1;</script><style>p{}</style></main>`,
			want: "Visible",
		},
		{
			name: "no region",
			html: `<html><body><div>Nothing marked</div></body></html>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractText([]byte(tt.html))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract(t *testing.T) {
	var (
		mu    sync.Mutex
		gotUA string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotUA = r.Header.Get("User-Agent")
		mu.Unlock()
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("<main>" + longBody + "</main>"))
		case "/short":
			_, _ = w.Write([]byte("<main>Too short</main>"))
		case "/bare":
			_, _ = w.Write([]byte("<div>" + longBody + "</div>"))
		case "/slow":
			time.Sleep(300 * time.Millisecond)
			_, _ = w.Write([]byte("<main>" + longBody + "</main>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	e := New(Config{
		Timeout:          100 * time.Millisecond,
		UserAgent:        "askclinic-test",
		MinContentLength: 100,
	}, zap.NewNop())

	tests := []struct {
		path  string
		empty bool
	}{
		{"/ok", false},
		{"/short", true},
		{"/bare", true},
		{"/missing", true},
		{"/slow", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := e.Extract(context.Background(), srv.URL+tt.path)
			if tt.empty {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, strings.TrimSpace(longBody), got)
		})
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "askclinic-test", gotUA)
}

func TestExtractUnreachable(t *testing.T) {
	e := New(Config{Timeout: 50 * time.Millisecond}, zap.NewNop())
	assert.Empty(t, e.Extract(context.Background(), "http://127.0.0.1:1/none"))
}
