package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/atvirokodosprendimai/retailadmin/internal/domain"
)

func printJSON(v any) error {
	b, err := jsonMarshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printKV(rows [][2]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("no results")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatDuration(start time.Time, end *time.Time) string {
	if end == nil {
		return "-"
	}
	return end.Sub(start).Round(time.Millisecond).String()
}

// formatCounts renders per-entity counts in insertion order, then any extras.
func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(counts))
	seen := map[string]bool{}
	for _, entity := range domain.InsertionOrder {
		if n, ok := counts[entity]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", entity, n))
			seen[entity] = true
		}
	}
	extra := make([]string, 0)
	for entity := range counts {
		if !seen[entity] {
			extra = append(extra, entity)
		}
	}
	sort.Strings(extra)
	for _, entity := range extra {
		parts = append(parts, fmt.Sprintf("%s=%d", entity, counts[entity]))
	}
	return strings.Join(parts, " ")
}

func printSeedRuns(items []domain.SeedRun) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		errText := item.Error
		if errText == "" {
			errText = "-"
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(item.ID), 10),
			item.Status,
			formatTime(item.StartedAt),
			formatDuration(item.StartedAt, item.FinishedAt),
			formatCounts(item.Counts),
			errText,
		})
	}
	printTable([]string{"ID", "STATUS", "STARTED", "TOOK", "COUNTS", "ERROR"}, rows)
}

func printAuditEntries(items []domain.AuditEntry) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		actor := item.ActorEmail
		if actor == "" {
			actor = "-"
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(item.ID), 10),
			item.Action,
			item.Target,
			actor,
			item.Metadata,
			formatTime(item.CreatedAt),
		})
	}
	printTable([]string{"ID", "ACTION", "TARGET", "ACTOR", "DETAIL", "AT"}, rows)
}
