// Package queue contains the catalog event payloads, the best-effort
// publisher, and the background consumer that appends events to a log file.
package queue

// CatalogQueueName is the durable queue carrying catalog mutation events.
const CatalogQueueName = "catalog.events"

// Event kinds published on catalog mutations.
const (
	KindMovieCreated = "movie.created"
	KindMovieDeleted = "movie.deleted"
	KindShowCreated  = "show.created"
	KindShowDeleted  = "show.deleted"
)

// CatalogEvent is published when a movie or show is created or deleted. It
// carries enough information for downstream consumers to log or trigger
// analytics without querying the primary database.
type CatalogEvent struct {
	Kind       string `json:"kind"`
	MovieID    int64  `json:"movie_id,omitempty"`
	ShowID     int64  `json:"show_id,omitempty"`
	Name       string `json:"name,omitempty"`
	ImdbID     string `json:"imdb_id,omitempty"`
	Room       string `json:"room,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
