package export

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/sirupsen/logrus"

	"github.com/jengzang/telco-sightings-go/internal/config"
	"github.com/jengzang/telco-sightings-go/internal/models"
)

// SightingMeasurement is the InfluxDB measurement sightings are written to
const SightingMeasurement = "subscriber_sighting"

// PointWriter is the blocking write API of an InfluxDB client
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// InfluxWriter writes each sighting as a point at the start of its hour
type InfluxWriter struct {
	client    influxdb2.Client
	writer    PointWriter
	batchSize int
	sites     map[string]models.Site
	logger    logrus.FieldLogger
}

// NewInfluxWriter creates a client for the configured bucket and verifies connectivity
func NewInfluxWriter(ctx context.Context, cfg config.InfluxDBConfig, sites []models.Site, logger logrus.FieldLogger) (*InfluxWriter, error) {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	if _, err := client.Health(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to InfluxDB: %w", err)
	}

	w := NewInfluxWriterWithAPI(client.WriteAPIBlocking(cfg.Org, cfg.Bucket), cfg.BatchSize, sites, logger)
	w.client = client
	return w, nil
}

// NewInfluxWriterWithAPI wraps an existing write API
func NewInfluxWriterWithAPI(writer PointWriter, batchSize int, sites []models.Site, logger logrus.FieldLogger) *InfluxWriter {
	return &InfluxWriter{
		writer:    writer,
		batchSize: batchSize,
		sites:     siteIndex(sites),
		logger:    logger,
	}
}

func (w *InfluxWriter) Name() string { return "influxdb" }

// Export writes records in batches
func (w *InfluxWriter) Export(ctx context.Context, records []models.TrajectoryRecord) error {
	return batches(len(records), w.batchSize, func(lo, hi int) error {
		points := make([]*write.Point, 0, hi-lo)
		for _, rec := range records[lo:hi] {
			p, err := w.point(rec)
			if err != nil {
				return err
			}
			points = append(points, p)
		}

		if err := w.writer.WritePoint(ctx, points...); err != nil {
			return fmt.Errorf("failed to write points %d-%d: %w", lo+1, hi, err)
		}
		w.logger.WithField("count", len(points)).Debug("wrote sighting points")
		return nil
	})
}

func (w *InfluxWriter) point(rec models.TrajectoryRecord) (*write.Point, error) {
	ts, err := rec.Time()
	if err != nil {
		return nil, fmt.Errorf("record %s has invalid date %q: %w", rec.UID, rec.Date, err)
	}

	fields := map[string]interface{}{
		"record_id": rec.UID,
		"hour":      rec.Hour,
	}
	if site, ok := w.sites[rec.SiteID]; ok {
		fields["longitude"] = site.Longitude
		fields["latitude"] = site.Latitude
	}

	return write.NewPoint(
		SightingMeasurement,
		map[string]string{
			"subscriber_id": rec.SubscriberID,
			"site_id":       rec.SiteID,
		},
		fields,
		ts,
	), nil
}

func (w *InfluxWriter) Close() error {
	if w.client != nil {
		w.client.Close()
	}
	return nil
}
