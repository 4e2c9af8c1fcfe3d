package cli

import "io"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file (default $MOMENTLINE_CONFIG or ~/.config/momentline/config.yaml)" default:""`
	DB      string `long:"db" description:"Path to SQLite database (overrides config)"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable debug logging"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// AddCommand records a new moment.
type AddCommand struct {
	Title    string  `long:"title" description:"Moment title (required)"`
	Note     string  `long:"note" description:"Inline note text"`
	NoteFile string  `long:"note-file" description:"Path to file containing the note"`
	At       string  `long:"at" description:"Moment time: now, RFC3339, 2006-01-02 15:04 or 2006-01-02" default:"now"`
	End      string  `long:"end" description:"Optional end time, same formats as --at"`
	Timeline string  `long:"timeline" description:"Timeline the moment belongs to" default:"default"`
	Y        float64 `long:"y" description:"Vertical card position in pixels" default:"0"`

	globals *GlobalFlags
	version string
}

// ListCommand lists moments with filters.
type ListCommand struct {
	Query    string `long:"query" description:"Substring to match in title or note"`
	Timeline string `long:"timeline" description:"Only moments on this timeline"`
	Since    string `long:"since" description:"Only moments newer than duration (e.g., 7d, 24h, 2w)"`
	Until    string `long:"until" description:"Only moments older than duration"`
	Limit    int    `long:"limit" description:"Maximum results" default:"50"`
	Offset   int    `long:"offset" description:"Skip first N results" default:"0"`

	globals *GlobalFlags
	version string
}

// ShowCommand prints one moment and its measured card size.
type ShowCommand struct {
	ID     string `long:"id" description:"Moment ID (required)"`
	Format string `long:"format" description:"Output format: full | md | json" default:"full"`

	globals *GlobalFlags
	version string
}

// MoveCommand drags a card to a new y and pushes overlapping neighbours.
type MoveCommand struct {
	ID string `long:"id" description:"Moment ID (required)"`
	Y  string `long:"y" description:"New vertical position in pixels (required)"`

	globals *GlobalFlags
	version string
}

// ResizeCommand grows or shrinks a card within its floors.
type ResizeCommand struct {
	ID   string  `long:"id" description:"Moment ID (required)"`
	DW   float64 `long:"dw" description:"Width delta in pixels"`
	DH   float64 `long:"dh" description:"Height delta in pixels"`
	Zoom string  `long:"zoom" description:"Zoom unit the resize happens at (default from config)"`

	globals *GlobalFlags
	version string
}

// TicksCommand prints the resolved time axis for a view.
type TicksCommand struct {
	At       string  `long:"at" description:"View centre time" default:"now"`
	Zoom     string  `long:"zoom" description:"Zoom unit: 5min 10min 30min hour 6hour day week month year (default from config)"`
	Width    float64 `long:"width" description:"Viewport width in pixels (default from config)"`
	Timezone string  `long:"tz" description:"IANA timezone for calendar boundaries (default from config)"`
	Bands    bool    `long:"bands" description:"Also print weekend shading bands"`

	globals *GlobalFlags
	version string
}

// ViewCommand opens the interactive terminal timeline.
type ViewCommand struct {
	Timeline string `long:"timeline" description:"Timeline to show (default: last viewed)"`
	At       string `long:"at" description:"Centre time (default: last viewed, else now)"`
	Zoom     string `long:"zoom" description:"Initial zoom unit (default: last viewed, else config)"`

	globals *GlobalFlags
	version string
}

// StatusCommand shows database statistics and configuration summary.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// PruneCommand deletes moments older than the retention period.
type PruneCommand struct {
	OlderThan string `long:"older-than" description:"Override retention period (e.g., 30d)"`
	DryRun    bool   `long:"dry-run" description:"Show what would be pruned without deleting"`
	Force     bool   `long:"force" description:"Skip confirmation prompt"`

	globals *GlobalFlags
	version string
	stdin   io.Reader // nil means os.Stdin
}

// PurgeCommand deletes ALL Momentline data with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	stdin   io.Reader // nil means os.Stdin
}
