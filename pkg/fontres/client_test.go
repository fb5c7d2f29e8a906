package fontres

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/goregular"
)

func TestSelectFontURL(t *testing.T) {
	tests := []struct {
		name  string
		sheet string
		want  string
	}{
		{
			name:  "direct ttf",
			sheet: `@font-face { src: url(https://cdn.example/f/roboto.ttf) format('truetype'); }`,
			want:  "https://cdn.example/f/roboto.ttf",
		},
		{
			name: "ttf preferred over woff2",
			sheet: `src: url(https://cdn.example/f/roboto.woff2) format('woff2');
					src: url(https://cdn.example/f/roboto.ttf) format('truetype');`,
			want: "https://cdn.example/f/roboto.ttf",
		},
		{
			name:  "quoted url",
			sheet: `src: url("https://cdn.example/f/roboto.ttf");`,
			want:  "https://cdn.example/f/roboto.ttf",
		},
		{
			name:  "woff2 only gets rewritten",
			sheet: `src: url(https://cdn.example/f/roboto.woff2) format('woff2');`,
			want:  "https://cdn.example/f/roboto.ttf",
		},
		{
			name:  "nothing usable",
			sheet: `src: url(https://cdn.example/f/roboto.eot);`,
			want:  "",
		},
		{
			name:  "empty sheet",
			sheet: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selectFontURL(tt.sheet); got != tt.want {
				t.Errorf("selectFontURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchFontBinary(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		mux := http.NewServeMux()
		srv := httptest.NewServer(mux)
		defer srv.Close()

		mux.HandleFunc("/css", func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("family"); got != "Roboto:wght@400" {
				t.Errorf("family query = %q, want Roboto:wght@400", got)
			}
			fmt.Fprintf(w, "@font-face { src: url(%s/fonts/roboto.ttf); }", srv.URL)
		})
		mux.HandleFunc("/fonts/roboto.ttf", func(w http.ResponseWriter, _ *http.Request) {
			w.Write(goregular.TTF)
		})

		c := NewClient(ClientOptions{StyleSheetURL: srv.URL + "/css"})
		data := c.FetchFontBinary(context.Background(), "Roboto", 400)
		if len(data) != len(goregular.TTF) {
			t.Errorf("fetched %d bytes, want %d", len(data), len(goregular.TTF))
		}
	})

	t.Run("woff2 rewrite fetches the ttf variant", func(t *testing.T) {
		mux := http.NewServeMux()
		srv := httptest.NewServer(mux)
		defer srv.Close()

		mux.HandleFunc("/css", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprintf(w, "src: url(%s/fonts/roboto.woff2) format('woff2');", srv.URL)
		})
		mux.HandleFunc("/fonts/roboto.ttf", func(w http.ResponseWriter, _ *http.Request) {
			w.Write(goregular.TTF)
		})

		c := NewClient(ClientOptions{StyleSheetURL: srv.URL + "/css"})
		if data := c.FetchFontBinary(context.Background(), "Roboto", 400); data == nil {
			t.Error("rewrite heuristic did not recover the ttf")
		}
	})

	t.Run("failures return nil, never panic", func(t *testing.T) {
		tests := []struct {
			name    string
			handler http.HandlerFunc
		}{
			{
				name:    "style sheet 404",
				handler: http.NotFound,
			},
			{
				name: "sheet with no urls",
				handler: func(w http.ResponseWriter, _ *http.Request) {
					fmt.Fprint(w, "/* nothing here */")
				},
			},
			{
				name: "binary too small",
				handler: func(w http.ResponseWriter, r *http.Request) {
					if r.URL.Path == "/css" {
						fmt.Fprintf(w, "src: url(http://%s/tiny.ttf);", r.Host)
						return
					}
					w.Write([]byte("stub"))
				},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				srv := httptest.NewServer(tt.handler)
				defer srv.Close()

				c := NewClient(ClientOptions{StyleSheetURL: srv.URL + "/css"})
				if data := c.FetchFontBinary(context.Background(), "Roboto", 400); data != nil {
					t.Errorf("got %d bytes, want nil", len(data))
				}
			})
		}
	})

	t.Run("timeout treated as acquisition failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		c := NewClient(ClientOptions{
			StyleSheetURL: srv.URL + "/css",
			Timeout:       10 * time.Millisecond,
		})
		if data := c.FetchFontBinary(context.Background(), "Roboto", 400); data != nil {
			t.Error("slow backend must resolve to nil, not block the render")
		}
	})
}
