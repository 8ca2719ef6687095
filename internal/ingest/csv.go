// Package ingest reads and writes the columnar site, candidate and subscriber
// files exchanged with the generation pipeline.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jengzang/telco-sightings-go/internal/models"
	"github.com/jengzang/telco-sightings-go/internal/spatial"
)

// RowWarning describes an input row that was skipped
type RowWarning struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

func (w RowWarning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Reason)
}

// Accepted header names, canonical name first
var (
	siteIDColumns       = []string{"site_id", "cel_uid", "uid"}
	coordinateColumns   = []string{"coordinate", "coords"}
	subscriberIDColumns = []string{"subscriber_id", "sub_uid", "uid"}
	longitudeColumns    = []string{"longitude", "lng", "lon"}
	latitudeColumns     = []string{"latitude", "lat"}
)

// ReadSites reads site_id,coordinate rows where coordinate is WKT point text.
// Rows with malformed geometry, blank or repeated ids are skipped and reported.
func ReadSites(r io.Reader) ([]models.Site, []RowWarning, error) {
	table, err := readTable(r)
	if err != nil {
		return nil, nil, err
	}
	idCol, err := table.column(siteIDColumns)
	if err != nil {
		return nil, nil, err
	}
	coordCol, err := table.column(coordinateColumns)
	if err != nil {
		return nil, nil, err
	}

	var sites []models.Site
	var warnings []RowWarning
	seen := make(map[string]bool)
	for _, row := range table.rows {
		id := strings.TrimSpace(row.field(idCol))
		if id == "" {
			warnings = append(warnings, RowWarning{Line: row.line, Reason: "empty site id"})
			continue
		}
		if seen[id] {
			warnings = append(warnings, RowWarning{Line: row.line, Reason: fmt.Sprintf("duplicate site id %s", id)})
			continue
		}
		p, err := spatial.ParseWKTPoint(row.field(coordCol))
		if err != nil {
			warnings = append(warnings, RowWarning{Line: row.line, Reason: fmt.Sprintf("site %s: %v", id, err)})
			continue
		}
		seen[id] = true
		sites = append(sites, models.NewSite(id, p))
	}

	return sites, warnings, nil
}

// ReadSubscribers reads the subscriber_id column; other columns are ignored
func ReadSubscribers(r io.Reader) ([]string, []RowWarning, error) {
	table, err := readTable(r)
	if err != nil {
		return nil, nil, err
	}
	idCol, err := table.column(subscriberIDColumns)
	if err != nil {
		return nil, nil, err
	}

	var ids []string
	var warnings []RowWarning
	seen := make(map[string]bool)
	for _, row := range table.rows {
		id := strings.TrimSpace(row.field(idCol))
		switch {
		case id == "":
			warnings = append(warnings, RowWarning{Line: row.line, Reason: "empty subscriber id"})
		case seen[id]:
			warnings = append(warnings, RowWarning{Line: row.line, Reason: fmt.Sprintf("duplicate subscriber id %s", id)})
		default:
			seen[id] = true
			ids = append(ids, id)
		}
	}

	return ids, warnings, nil
}

// ReadCandidates reads candidate points either from longitude,latitude columns
// or from a WKT coordinate column
func ReadCandidates(r io.Reader) ([]spatial.Point, []RowWarning, error) {
	table, err := readTable(r)
	if err != nil {
		return nil, nil, err
	}

	var parse func(row tableRow) (spatial.Point, error)
	if coordCol, err := table.column(coordinateColumns); err == nil {
		parse = func(row tableRow) (spatial.Point, error) {
			return spatial.ParseWKTPoint(row.field(coordCol))
		}
	} else {
		lonCol, err := table.column(longitudeColumns)
		if err != nil {
			return nil, nil, err
		}
		latCol, err := table.column(latitudeColumns)
		if err != nil {
			return nil, nil, err
		}
		parse = func(row tableRow) (spatial.Point, error) {
			lon, err := strconv.ParseFloat(strings.TrimSpace(row.field(lonCol)), 64)
			if err != nil {
				return spatial.Point{}, fmt.Errorf("%w: longitude %q", spatial.ErrInvalidCoordinate, row.field(lonCol))
			}
			lat, err := strconv.ParseFloat(strings.TrimSpace(row.field(latCol)), 64)
			if err != nil {
				return spatial.Point{}, fmt.Errorf("%w: latitude %q", spatial.ErrInvalidCoordinate, row.field(latCol))
			}
			p := spatial.Point{Lon: lon, Lat: lat}
			return p, p.Validate()
		}
	}

	var points []spatial.Point
	var warnings []RowWarning
	for _, row := range table.rows {
		p, err := parse(row)
		if err != nil {
			warnings = append(warnings, RowWarning{Line: row.line, Reason: err.Error()})
			continue
		}
		points = append(points, p)
	}

	return points, warnings, nil
}

// WriteSites writes sites as site_id,coordinate with WKT coordinates
func WriteSites(w io.Writer, sites []models.Site) error {
	rows := make([][]string, len(sites))
	for i, s := range sites {
		rows[i] = []string{s.ID, spatial.FormatWKT(s.Point())}
	}
	return writeTable(w, []string{"site_id", "coordinate"}, rows)
}

// WriteCandidates writes points as longitude,latitude
func WriteCandidates(w io.Writer, points []spatial.Point) error {
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{
			strconv.FormatFloat(p.Lon, 'f', -1, 64),
			strconv.FormatFloat(p.Lat, 'f', -1, 64),
		}
	}
	return writeTable(w, []string{"longitude", "latitude"}, rows)
}

// WriteSubscribers writes a subscriber_id column
func WriteSubscribers(w io.Writer, ids []string) error {
	rows := make([][]string, len(ids))
	for i, id := range ids {
		rows[i] = []string{id}
	}
	return writeTable(w, []string{"subscriber_id"}, rows)
}

type tableRow struct {
	line   int
	fields []string
}

func (r tableRow) field(col int) string {
	if col < len(r.fields) {
		return r.fields[col]
	}
	return ""
}

type table struct {
	header map[string]int
	rows   []tableRow
}

var errMissingHeader = errors.New("missing header row")

func readTable(r io.Reader) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	t := &table{header: make(map[string]int, len(header))}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, ok := t.header[name]; !ok {
			t.header[name] = i
		}
	}

	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		t.rows = append(t.rows, tableRow{line: line, fields: fields})
	}

	return t, nil
}

func (t *table) column(names []string) (int, error) {
	for _, name := range names {
		if i, ok := t.header[name]; ok {
			return i, nil
		}
	}
	return 0, fmt.Errorf("missing column %q", names[0])
}

func writeTable(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}
