package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"github.com/sirupsen/logrus"

	"github.com/jengzang/telco-sightings-go/internal/config"
	"github.com/jengzang/telco-sightings-go/internal/models"
)

// KafkaPublisher publishes one message per sighting, keyed by subscriber so a
// subscriber's sightings stay ordered within a partition
type KafkaPublisher struct {
	producer  sarama.SyncProducer
	topic     string
	batchSize int
	sites     map[string]models.Site
	logger    logrus.FieldLogger
}

// NewKafkaPublisher connects a synchronous producer to the configured brokers
func NewKafkaPublisher(cfg config.KafkaConfig, sites []models.Site, logger logrus.FieldLogger) (*KafkaPublisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Flush.Frequency = 100 * time.Millisecond

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, cfg.Topic, cfg.BatchSize, sites, logger), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, batchSize int, sites []models.Site, logger logrus.FieldLogger) *KafkaPublisher {
	return &KafkaPublisher{
		producer:  producer,
		topic:     topic,
		batchSize: batchSize,
		sites:     siteIndex(sites),
		logger:    logger,
	}
}

func (p *KafkaPublisher) Name() string { return "kafka" }

// Export sends records in batches and stops at the first failed batch
func (p *KafkaPublisher) Export(ctx context.Context, records []models.TrajectoryRecord) error {
	return batches(len(records), p.batchSize, func(lo, hi int) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		msgs := make([]*sarama.ProducerMessage, 0, hi-lo)
		for _, rec := range records[lo:hi] {
			value, err := json.Marshal(p.sighting(rec))
			if err != nil {
				return fmt.Errorf("failed to encode record %s: %w", rec.UID, err)
			}
			msgs = append(msgs, &sarama.ProducerMessage{
				Topic: p.topic,
				Key:   sarama.StringEncoder(rec.SubscriberID),
				Value: sarama.ByteEncoder(value),
			})
		}

		if err := p.producer.SendMessages(msgs); err != nil {
			return fmt.Errorf("failed to publish records %d-%d: %w", lo+1, hi, err)
		}
		p.logger.WithFields(logrus.Fields{"topic": p.topic, "count": len(msgs)}).Debug("published sightings")
		return nil
	})
}

func (p *KafkaPublisher) sighting(rec models.TrajectoryRecord) Sighting {
	s := Sighting{
		RecordID:     rec.UID,
		SubscriberID: rec.SubscriberID,
		SiteID:       rec.SiteID,
		Date:         rec.Date,
		Hour:         rec.Hour,
	}
	if ts, err := rec.Time(); err == nil {
		s.Timestamp = ts.Format(time.RFC3339)
	}
	if site, ok := p.sites[rec.SiteID]; ok {
		s.Longitude = site.Longitude
		s.Latitude = site.Latitude
	}
	return s
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

func siteIndex(sites []models.Site) map[string]models.Site {
	index := make(map[string]models.Site, len(sites))
	for _, s := range sites {
		index[s.ID] = s
	}
	return index
}
