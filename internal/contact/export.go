package contact

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var exportHeader = []string{"id", "name", "email", "phone", "company", "message", "source", "read", "created_at"}

// ExportCSV writes every submission as CSV, newest first, with a header row.
func ExportCSV(ctx context.Context, svc Service, w io.Writer) error {
	submissions, err := svc.List(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, sub := range submissions {
		row := []string{
			sub.ID.String(),
			sub.Name,
			sub.Email,
			sub.Phone,
			sub.Company,
			sub.Message,
			sub.Source,
			strconv.FormatBool(sub.ReadAt != nil),
			sub.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
