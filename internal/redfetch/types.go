package redfetch

import "time"

// ItemKind distinguishes posts from comments.
type ItemKind string

const (
	KindPost    ItemKind = "post"
	KindComment ItemKind = "comment"
)

// Item is one fetched post or comment. Read-only after fetch.
type Item struct {
	Kind      ItemKind
	Subreddit string
	Title     string // empty for comments
	Body      string
	Score     int
	CreatedAt time.Time
	Permalink string
}

// Result holds all activity fetched for one user, newest first as
// returned by the Reddit API.
type Result struct {
	Username string
	Posts    []Item
	Comments []Item
}

func (r *Result) TotalPosts() int    { return len(r.Posts) }
func (r *Result) TotalComments() int { return len(r.Comments) }

// TotalItems returns the combined post and comment count.
func (r *Result) TotalItems() int { return len(r.Posts) + len(r.Comments) }

// Reddit listing wire format; only the fields this tool reads.
type listing struct {
	Kind string      `json:"kind"`
	Data listingData `json:"data"`
}

type listingData struct {
	After    string  `json:"after"`
	Children []thing `json:"children"`
}

// thing kinds: t1 is a comment, t3 a submission.
type thing struct {
	Kind string    `json:"kind"`
	Data thingData `json:"data"`
}

type thingData struct {
	Subreddit  string  `json:"subreddit"`
	Title      string  `json:"title"`
	SelfText   string  `json:"selftext"`
	Body       string  `json:"body"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
	Permalink  string  `json:"permalink"`
}

func (t thing) toItem() Item {
	d := t.Data
	item := Item{
		Subreddit: d.Subreddit,
		Score:     d.Score,
		CreatedAt: time.Unix(int64(d.CreatedUTC), 0).UTC(),
		Permalink: "https://reddit.com" + d.Permalink,
	}
	if t.Kind == "t1" {
		item.Kind = KindComment
		item.Body = d.Body
	} else {
		item.Kind = KindPost
		item.Title = d.Title
		item.Body = d.SelfText
	}
	return item
}
