package commands

import (
	"context"
	"fmt"

	"github.com/radpipe/radpipe/internal/journal"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Assembly string `short:"a" help:"Limit to one assembly name"`
	Limit    int    `short:"n" help:"Maximum events to show" default:"20"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	rt, err := newRuntime(root)
	if err != nil {
		return err
	}
	defer rt.close()

	if rt.Journal == nil {
		return fmt.Errorf("no journal configured (set journal_path in %s)", root.Config)
	}

	ctx := context.Background()
	var events []journal.Event
	if h.Assembly != "" {
		events, err = rt.Journal.ByAssembly(ctx, rt.Config.ProjectDir, h.Assembly)
	} else {
		events, err = rt.Journal.Recent(ctx, h.Limit)
	}
	if err != nil {
		return err
	}

	if len(events) == 0 {
		fmt.Println("  no recorded events")
		return nil
	}
	for _, e := range events {
		fmt.Printf("%s  %-18s %s", e.Timestamp.Format("2006-01-02 15:04:05"), e.Type, e.Assembly)
		if len(e.Payload) > 0 {
			fmt.Printf("  %v", e.Payload)
		}
		fmt.Println()
	}
	return nil
}
