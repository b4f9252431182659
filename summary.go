package main

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"dice-reader/internal/dice"
	"dice-reader/internal/motion"
	"dice-reader/internal/pipeline"
	"dice-reader/internal/video"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderSummary prints one row per processed video.
func renderSummary(results []pipeline.Result) string {
	headers := []string{"Video", "Strategy", "Frames", "Settled", "Dice", "Output", "Size", "Time", "Status"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft}

	rows := make([][]string, 0, len(results))
	for _, res := range results {
		size := ""
		if res.OutputBytes > 0 {
			size = humanize.Bytes(uint64(res.OutputBytes))
		}
		output := ""
		if res.Output != "" {
			output = filepath.Base(res.Output)
		}
		rows = append(rows, []string{
			filepath.Base(res.Input),
			res.Strategy,
			strconv.Itoa(res.Frames),
			formatRuns(res.Runs),
			formatValues(dice.Values(res.Dice())),
			output,
			size,
			res.Elapsed.Round(10 * time.Millisecond).String(),
			statusLabel(res.Err),
		})
	}
	return renderTable(headers, rows, aligns)
}

func formatRuns(runs []pipeline.Run) string {
	parts := make([]string, len(runs))
	for i, r := range runs {
		parts[i] = strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End)
	}
	return strings.Join(parts, ", ")
}

func formatValues(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

func statusLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, video.ErrNotFound):
		return "not found"
	case errors.Is(err, pipeline.ErrNoDice):
		return "no dice"
	case errors.Is(err, pipeline.ErrBusy):
		return "busy"
	case errors.Is(err, motion.ErrInsufficientFrames):
		return "too short"
	case errors.Is(err, video.ErrOpen):
		return "open failed"
	case errors.Is(err, video.ErrDecode):
		return "decode error"
	case errors.Is(err, video.ErrEncode):
		return "encode error"
	case isCanceled(err):
		return "canceled"
	default:
		return "failed"
	}
}
