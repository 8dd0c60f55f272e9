package reddit

// Listing is the envelope Reddit wraps every paginated response in.
type Listing struct {
	Kind string      `json:"kind"`
	Data ListingData `json:"data"`
}

type ListingData struct {
	After    string  `json:"after"`
	Dist     int     `json:"dist"`
	Children []Thing `json:"children"`
}

// Thing is a single child of a listing. Kind is "t3" for submissions and
// "t1" for comments.
type Thing struct {
	Kind string    `json:"kind"`
	Data ThingData `json:"data"`
}

type ThingData struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Title      *string `json:"title"`
	Selftext   *string `json:"selftext"`
	Body       *string `json:"body"`
	CreatedUTC float64 `json:"created_utc"`
	Permalink  string  `json:"permalink"`
	Subreddit  string  `json:"subreddit"`
}
