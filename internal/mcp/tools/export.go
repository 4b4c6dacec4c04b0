package tools

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hayloft/cardstable-mcp/pkg/types"
)

// exportColumns is the fixed column set, in output order.
var exportColumns = []string{"path", "name", "author", "tags", "categories", "datecreate", "dateupdate", "url"}

// ExportListInput is the input for cardstable_export_list.
type ExportListInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Session ID (default: default)"`
	Format    string `json:"format,omitempty" jsonschema:"Output format: csv (default) or markdown"`
	MaxRows   int    `json:"max_rows,omitempty" jsonschema:"Cap on exported rows; 0 exports the whole filtered list"`
}

// ExportListOutput is the output for cardstable_export_list.
type ExportListOutput struct {
	Format    string `json:"format"`
	RowCount  int    `json:"row_count"`
	Truncated bool   `json:"truncated,omitempty"`
	Content   string `json:"content"`
	Hint      string `json:"hint,omitempty"`
}

// ToolExportList renders the session's current filtered list, every page of
// it, as a CSV document or a Markdown table.
func ToolExportList(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ExportListInput) (*sdkmcp.CallToolResult, ExportListOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ExportListInput) (*sdkmcp.CallToolResult, ExportListOutput, error) {
		format := input.Format
		if format == "" {
			format = "csv"
		}
		if format != "csv" && format != "markdown" {
			return nil, ExportListOutput{}, ErrInvalidInput(fmt.Sprintf("unknown format %q (valid: csv, markdown)", input.Format))
		}

		s := d.Settings.Get()
		view := d.Sessions.Get(input.SessionID).View()

		sortKey := view.Sort
		if sortKey == "" {
			sortKey = s.DefaultSort
		}

		list, err := d.Search.List(ctx, &types.SearchRequest{
			SelectedIDs: view.SelectedIDs,
			Term:        view.Term,
			Sort:        sortKey,
			NSFWVisible: s.NSFWVisible,
			Refresh:     !s.CacheEnabled,
		})
		if err != nil {
			return nil, ExportListOutput{}, WrapCatalogError(err)
		}

		truncated := false
		if input.MaxRows > 0 && len(list) > input.MaxRows {
			list = list[:input.MaxRows]
			truncated = true
		}

		var content string
		switch format {
		case "csv":
			content, err = renderCSV(list)
			if err != nil {
				return nil, ExportListOutput{}, fmt.Errorf("render csv: %w", err)
			}
		case "markdown":
			content = renderMarkdown(list)
		}

		hint := fmt.Sprintf("%d row(s) exported.", len(list))
		if truncated {
			hint = fmt.Sprintf("%d row(s) exported; the filtered list is longer. Raise max_rows for the rest.", len(list))
		}
		if len(list) == 0 {
			hint = "The filtered list is empty; adjust the selection or term with select_tags or search_cards first."
		}

		return nil, ExportListOutput{
			Format:    format,
			RowCount:  len(list),
			Truncated: truncated,
			Content:   content,
			Hint:      hint,
		}, nil
	}
}

func renderCSV(rows []types.CardSummary) (string, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)
	if err := w.Write(exportColumns); err != nil {
		return "", err
	}
	for _, r := range rows {
		rec := []string{
			r.Path,
			r.Name,
			r.Author,
			strings.Join(r.Tags, "; "),
			strings.Join(r.Categories, "; "),
			r.DateCreate,
			r.DateUpdate,
			r.URL,
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

func renderMarkdown(rows []types.CardSummary) string {
	var b strings.Builder
	b.WriteString("| Path | Name | Author | Tags | Categories | Created | Updated | URL |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- |\n")
	for _, r := range rows {
		cells := []string{
			r.Path,
			r.Name,
			r.Author,
			strings.Join(r.Tags, ", "),
			strings.Join(r.Categories, ", "),
			r.DateCreate,
			r.DateUpdate,
			r.URL,
		}
		for i, c := range cells {
			cells[i] = mdCell(c)
		}
		fmt.Fprintf(&b, "| %s |\n", strings.Join(cells, " | "))
	}
	return b.String()
}

// mdCell makes a value safe inside a Markdown table cell.
func mdCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
