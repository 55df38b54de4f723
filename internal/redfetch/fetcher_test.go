package redfetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestExtractUsername(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "bare username", input: "kn0thing", want: "kn0thing"},
		{name: "u prefix", input: "u/kn0thing", want: "kn0thing"},
		{name: "slash u prefix", input: "/u/kn0thing", want: "kn0thing"},
		{name: "surrounding whitespace", input: "  kn0thing \n", want: "kn0thing"},
		{name: "profile url", input: "https://www.reddit.com/user/kn0thing", want: "kn0thing"},
		{name: "profile url with trailing path", input: "https://reddit.com/user/kn0thing/comments/", want: "kn0thing"},
		{name: "short profile url", input: "https://reddit.com/u/kn0thing", want: "kn0thing"},
		{name: "url without user segment", input: "https://reddit.com/r/golang", wantErr: true},
		{name: "url with trailing user segment only", input: "https://reddit.com/user/", wantErr: true},
		{name: "empty input", input: "", wantErr: true},
		{name: "just the prefix", input: "u/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractUsername(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractUsername(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractUsername(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestThingToItem(t *testing.T) {
	t.Run("submission", func(t *testing.T) {
		th := thing{
			Kind: "t3",
			Data: thingData{
				Subreddit:  "golang",
				Title:      "Generics in practice",
				SelfText:   "Some thoughts.",
				Score:      42,
				CreatedUTC: 1700000000,
				Permalink:  "/r/golang/comments/abc/generics_in_practice/",
			},
		}
		item := th.toItem()
		if item.Kind != KindPost {
			t.Errorf("Kind = %q, want %q", item.Kind, KindPost)
		}
		if item.Title != "Generics in practice" || item.Body != "Some thoughts." {
			t.Errorf("unexpected title/body: %q / %q", item.Title, item.Body)
		}
		if item.Permalink != "https://reddit.com/r/golang/comments/abc/generics_in_practice/" {
			t.Errorf("Permalink = %q", item.Permalink)
		}
		if item.CreatedAt != time.Unix(1700000000, 0).UTC() {
			t.Errorf("CreatedAt = %v", item.CreatedAt)
		}
	})

	t.Run("comment", func(t *testing.T) {
		th := thing{
			Kind: "t1",
			Data: thingData{
				Subreddit:  "golang",
				Body:       "Agreed.",
				Score:      3,
				CreatedUTC: 1700000001,
				Permalink:  "/r/golang/comments/abc/x/def/",
			},
		}
		item := th.toItem()
		if item.Kind != KindComment {
			t.Errorf("Kind = %q, want %q", item.Kind, KindComment)
		}
		if item.Title != "" {
			t.Errorf("comment Title = %q, want empty", item.Title)
		}
		if item.Body != "Agreed." {
			t.Errorf("Body = %q", item.Body)
		}
	})
}

func listingJSON(children ...string) string {
	return fmt.Sprintf(`{"kind":"Listing","data":{"after":"","children":[%s]}}`,
		strings.Join(children, ","))
}

func postJSON(title string, score int) string {
	return fmt.Sprintf(`{"kind":"t3","data":{"subreddit":"golang","title":%q,"selftext":"body of %s","score":%d,"created_utc":1700000000,"permalink":"/r/golang/p/"}}`,
		title, title, score)
}

func commentJSON(body string) string {
	return fmt.Sprintf(`{"kind":"t1","data":{"subreddit":"golang","body":%q,"score":1,"created_utc":1700000000,"permalink":"/r/golang/c/"}}`, body)
}

func newTestFetcher(srv *httptest.Server, maxPosts, maxComments int) *Fetcher {
	return &Fetcher{
		client:      srv.Client(),
		baseURL:     srv.URL,
		maxPosts:    maxPosts,
		maxComments: maxComments,
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/submitted"):
			fmt.Fprint(w, listingJSON(postJSON("first", 10), postJSON("second", 5)))
		case strings.Contains(r.URL.Path, "/comments"):
			fmt.Fprint(w, listingJSON(commentJSON("a comment")))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := newTestFetcher(srv, 50, 50)
	result, err := f.Fetch(context.Background(), "gopher")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if result.TotalPosts() != 2 || result.TotalComments() != 1 {
		t.Fatalf("got %d posts, %d comments, want 2 and 1", result.TotalPosts(), result.TotalComments())
	}
	// API order must be preserved.
	if result.Posts[0].Title != "first" || result.Posts[1].Title != "second" {
		t.Errorf("post order = %q, %q", result.Posts[0].Title, result.Posts[1].Title)
	}
	if result.Comments[0].Body != "a comment" {
		t.Errorf("comment body = %q", result.Comments[0].Body)
	}
}

func TestFetch_RespectsLimits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var children []string
		if strings.Contains(r.URL.Path, "/submitted") {
			for i := range 10 {
				children = append(children, postJSON(fmt.Sprintf("post %d", i), i))
			}
		} else {
			for range 10 {
				children = append(children, commentJSON("c"))
			}
		}
		fmt.Fprint(w, listingJSON(children...))
	}))
	defer srv.Close()

	f := newTestFetcher(srv, 3, 2)
	result, err := f.Fetch(context.Background(), "gopher")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if result.TotalPosts() != 3 {
		t.Errorf("TotalPosts() = %d, want 3", result.TotalPosts())
	}
	if result.TotalComments() != 2 {
		t.Errorf("TotalComments() = %d, want 2", result.TotalComments())
	}
}

func TestFetch_Pagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/comments") {
			fmt.Fprint(w, listingJSON())
			return
		}
		if r.URL.Query().Get("after") == "" {
			fmt.Fprint(w, `{"kind":"Listing","data":{"after":"t3_page2","children":[`+postJSON("page one", 1)+`]}}`)
			return
		}
		fmt.Fprint(w, listingJSON(postJSON("page two", 2)))
	}))
	defer srv.Close()

	f := newTestFetcher(srv, 5, 5)
	result, err := f.Fetch(context.Background(), "gopher")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if result.TotalPosts() != 2 {
		t.Fatalf("TotalPosts() = %d, want 2 across pages", result.TotalPosts())
	}
	if result.Posts[1].Title != "page two" {
		t.Errorf("second page post = %q", result.Posts[1].Title)
	}
}

func TestFetch_UserNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found", "error": 404}`, http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher(srv, 50, 50)
	_, err := f.Fetch(context.Background(), "nobody_here")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Fetch() error = %v, want ErrUserNotFound", err)
	}
}

func TestFetch_AuthRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	f := newTestFetcher(srv, 50, 50)
	_, err := f.Fetch(context.Background(), "gopher")
	if !errors.Is(err, ErrAuthFailed) {
		t.Errorf("Fetch() error = %v, want ErrAuthFailed", err)
	}
}

func TestUserAgentTransport(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		fmt.Fprint(w, listingJSON())
	}))
	defer srv.Close()

	client := &http.Client{
		Transport: &userAgentTransport{agent: "redpersona/1.0 (by u/gopher)", base: http.DefaultTransport},
	}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if gotAgent != "redpersona/1.0 (by u/gopher)" {
		t.Errorf("User-Agent = %q", gotAgent)
	}
}
