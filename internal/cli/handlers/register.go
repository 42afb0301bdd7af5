package handlers

import (
	"fmt"

	"github.com/Matoxx01/JobCounter/internal/cli"
	"github.com/Matoxx01/JobCounter/internal/service"
)

// ShowRegister archives a finished week, then lists the register. With
// markdown set the list and its summary are rendered through glamour.
func ShowRegister(deps *cli.Deps, markdown bool, style string) {
	if _, err := deps.Services.Store.ProcessWeekly(); err != nil {
		cli.Fail(deps, "Failed to archive the finished week", err)
		return
	}

	result, err := deps.Services.Store.GetRegisterSummary()
	if err != nil {
		cli.Fail(deps, "Failed to read the register", err)
		return
	}

	if markdown {
		out, err := cli.RenderMarkdown(cli.BuildRegisterMarkdown(result), style, 80)
		if err != nil {
			cli.Fail(deps, "Failed to render the register", err)
			return
		}
		_, _ = fmt.Fprint(deps.Stdout, out)
		return
	}

	if len(result.Entries) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No weeks archived yet")
		return
	}

	_, _ = fmt.Fprint(deps.Stdout, cli.FormatRegisterTable(result.Entries))
	_, _ = fmt.Fprintln(deps.Stdout)
	_, _ = fmt.Fprintf(deps.Stdout, "Balance: %s over %d %s\n",
		cli.FormatBalance(result.Statistics.BalanceSeconds),
		result.Statistics.Weeks,
		cli.Pluralize("week", result.Statistics.Weeks))
}

// DeleteRegister asks for confirmation, unless yes is set, and deletes the entry with the given id
func DeleteRegister(deps *cli.Deps, idStr string, yes bool) {
	id, err := service.ParseID(idStr)
	if err != nil {
		cli.Fail(deps, err.Error(), nil, "Ids are listed by 'jobcounter register'")
		return
	}

	entries, err := deps.Services.Store.GetRegister()
	if err != nil {
		cli.Fail(deps, "Failed to read the register", err)
		return
	}

	found := false
	for _, e := range entries {
		if e.ID == id {
			_, _ = fmt.Fprintln(deps.Stdout, "Entry to delete:")
			_, _ = fmt.Fprintf(deps.Stdout, "  %d  %s  %s\n", e.ID, cli.FormatWeek(e.Week), e.Offset)
			found = true
			break
		}
	}
	if !found {
		cli.Fail(deps, fmt.Sprintf("No register entry with id %d", id), nil, "Ids are listed by 'jobcounter register'")
		return
	}

	if !yes && !cli.Confirm(deps, "Delete this entry?") {
		_, _ = fmt.Fprintln(deps.Stdout, "Deletion cancelled")
		return
	}

	removed, err := deps.Services.Store.DeleteRegister(id)
	if err != nil {
		cli.Fail(deps, "Failed to delete entry", err)
		return
	}
	if !removed {
		cli.Fail(deps, fmt.Sprintf("No register entry with id %d", id), nil)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Deleted entry %d\n", id)
}

// ProcessWeekly runs the weekly rollover and prints what it archived
func ProcessWeekly(deps *cli.Deps) {
	created, err := deps.Services.Store.ProcessWeekly()
	if err != nil {
		cli.Fail(deps, "Failed to archive the finished week", err)
		return
	}
	if len(created) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "Nothing to archive")
		return
	}
	for _, e := range created {
		_, _ = fmt.Fprintf(deps.Stdout, "Archived week of %s: %s\n", cli.FormatWeek(e.Week), e.Offset)
	}
}

// ListSnapshots prints every stored snapshot
func ListSnapshots(deps *cli.Deps) {
	snaps, err := deps.Services.Store.ListAllSnapshots()
	if err != nil {
		cli.Fail(deps, "Failed to read snapshots", err)
		return
	}
	if len(snaps) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No snapshots stored")
		return
	}
	for i := range snaps {
		_, _ = fmt.Fprintf(deps.Stdout, "[%d]\n", i)
		_, _ = fmt.Fprint(deps.Stdout, cli.FormatSnapshot(&snaps[i]))
	}
}
