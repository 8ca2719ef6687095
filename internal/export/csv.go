package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jengzang/telco-sightings-go/internal/models"
)

// RecordHeader is the column layout of the record CSV
var RecordHeader = []string{"record_id", "subscriber_id", "site_id", "date", "hour"}

// WriteRecords writes records as CSV in the given order
func WriteRecords(w io.Writer, records []models.TrajectoryRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RecordHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write([]string{r.UID, r.SubscriberID, r.SiteID, r.Date, strconv.Itoa(r.Hour)}); err != nil {
			return fmt.Errorf("failed to write record %s: %w", r.UID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVSink writes the record set to a file
type CSVSink struct {
	path string
}

// NewCSVSink creates a sink writing to path, creating its directory on export
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

func (s *CSVSink) Name() string { return "csv" }

// Export replaces the file at the sink path
func (s *CSVSink) Export(_ context.Context, records []models.TrajectoryRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", s.path, err)
	}
	if err := WriteRecords(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *CSVSink) Close() error { return nil }
