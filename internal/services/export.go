package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/toria-lab/logosurvey/internal/catalog"
	"github.com/toria-lab/logosurvey/internal/models"
)

// unratedMarker fills item columns for which a response carries no rating.
const unratedMarker = "unrated"

// exportTimeLayout mirrors the dashboard's localized timestamp rendering.
const exportTimeLayout = "2006/01/02 15:04:05"

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportCSV renders the full response set as a wide CSV: one header row plus
// one row per response, with one column per catalog item. The output starts
// with a UTF-8 BOM so spreadsheet tools render non-ASCII item names
// correctly. An empty response set yields ErrEmptyExport and no document.
func ExportCSV(responses []models.Response, cat *catalog.Catalog, now time.Time) (*ExportResult, error) {
	if len(responses) == 0 {
		return nil, ErrEmptyExport
	}

	buf := &bytes.Buffer{}
	buf.WriteString("\uFEFF")
	w := csv.NewWriter(buf)

	header := make([]string, 0, cat.Size()+5)
	header = append(header, "response_id", "completed_at", "gender", "age")
	for _, it := range cat.Items {
		header = append(header, it.Name+"_score")
	}
	header = append(header, "total_ratings")
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, resp := range responses {
		scores := map[string]int{}
		for _, r := range resp.Ratings {
			scores[r.ItemID] = r.Score
		}
		row := make([]string, 0, len(header))
		row = append(row,
			resp.ID,
			resp.CompletedAt.Local().Format(exportTimeLayout),
			string(resp.Demographics.Gender),
			strconv.Itoa(resp.Demographics.Age),
		)
		for _, it := range cat.Items {
			if v, ok := scores[it.ID]; ok {
				row = append(row, strconv.Itoa(v))
			} else {
				row = append(row, unratedMarker)
			}
		}
		row = append(row, strconv.Itoa(len(resp.Ratings)))
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &ExportResult{
		Filename:    "logo-survey-results-" + now.Format("2006-01-02") + ".csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
	}, nil
}
