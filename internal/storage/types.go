package storage

import "time"

// DefaultTimeline is used when a moment is added without a timeline.
const DefaultTimeline = "default"

// Moment is a stored timeline entry. Y, Width and Height are the card's
// last settled layout; zero Width/Height means "measure from content".
type Moment struct {
	ID         string
	TimelineID string
	Timestamp  time.Time
	EndTime    *time.Time
	Title      string
	Note       string
	Y          float64
	Width      float64
	Height     float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Position is a settled vertical card position.
type Position struct {
	ID string
	Y  float64
}

// MomentQuery filters ListMoments. Zero values mean "no filter".
type MomentQuery struct {
	TimelineID string
	Query      string // substring match on title and note
	Since      time.Time
	Until      time.Time
	Limit      int
	Offset     int
}

// CanvasSnapshot is the persisted view of one timeline.
type CanvasSnapshot struct {
	TimelineID string
	Center     time.Time
	MsPerPixel float64
	SavedAt    time.Time
}

// Stats holds aggregate statistics about the Momentline database.
type Stats struct {
	TotalMoments      int64
	TotalTimelines    int64
	TotalSnapshots    int64
	OldestMoment      time.Time
	NewestMoment      time.Time
	DatabaseSizeBytes int64
	TopTimelines      []TimelineCount
}

// TimelineCount pairs a timeline with its moment count.
type TimelineCount struct {
	TimelineID string
	Count      int64
}
