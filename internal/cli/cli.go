package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Add    *AddCommand
	List   *ListCommand
	Show   *ShowCommand
	Move   *MoveCommand
	Resize *ResizeCommand
	Ticks  *TicksCommand
	View   *ViewCommand
	Status *StatusCommand
	Prune  *PruneCommand
	Purge  *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "momentline"
	parser.LongDescription = "Zoomable personal timeline: record moments, lay them out without overlap, and browse them on a time axis."

	cmds := &commands{
		Add:    &AddCommand{globals: &globals, version: version},
		List:   &ListCommand{globals: &globals, version: version},
		Show:   &ShowCommand{globals: &globals, version: version},
		Move:   &MoveCommand{globals: &globals, version: version},
		Resize: &ResizeCommand{globals: &globals, version: version},
		Ticks:  &TicksCommand{globals: &globals, version: version},
		View:   &ViewCommand{globals: &globals, version: version},
		Status: &StatusCommand{globals: &globals, version: version},
		Prune:  &PruneCommand{globals: &globals, version: version},
		Purge:  &PurgeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("add", "Record a moment", "Record a moment on a timeline and place its card without overlapping its neighbours.", cmds.Add)
	parser.AddCommand("list", "List moments", "List moments, oldest first, with optional text, timeline and time filters.", cmds.List)
	parser.AddCommand("show", "Print one moment", "Print a moment with its stored layout and measured card size.", cmds.Show)
	parser.AddCommand("move", "Move a card vertically", "Move a card to a new y position, pushing temporally close cards out of the way.", cmds.Move)
	parser.AddCommand("resize", "Resize a card", "Resize a card; width and height never drop below their floors.", cmds.Resize)
	parser.AddCommand("ticks", "Print the time axis", "Print the labelled time axis for a view centre, zoom unit and width.", cmds.Ticks)
	parser.AddCommand("view", "Open the interactive timeline", "Open the interactive terminal timeline with mouse pan and zoom.", cmds.View)
	parser.AddCommand("status", "Show database statistics", "Show database statistics and configuration summary.", cmds.Status)
	parser.AddCommand("prune", "Apply retention pruning", "Delete moments older than the retention period.", cmds.Prune)
	parser.AddCommand("purge", "Delete ALL Momentline data", "Delete ALL Momentline data. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the Momentline CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("momentline %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
