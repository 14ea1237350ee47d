package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// SummaryStore is the durable tier: it holds only summary points keyed
// by the canonical source URL, never rendered pages. The TTL is long
// because model latency and quota dominate render cost.
type SummaryStore interface {
	Get(ctx context.Context, key string) ([]string, error)
	Set(ctx context.Context, key string, points []string) error
	Stats(ctx context.Context) (*Stats, error)
	Purge(ctx context.Context) error
	Close() error
}

// Stats describes the durable tier contents
type Stats struct {
	TotalEntries int           `json:"total_entries"`
	TotalBytes   int64         `json:"total_bytes"`
	OldestEntry  time.Time     `json:"oldest_entry"`
	AverageAge   time.Duration `json:"average_age"`
}

// summaryEntry is the stored JSON document
type summaryEntry struct {
	Key       string    `json:"key"`
	Points    []string  `json:"points"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CloudStorageStore implements SummaryStore on Google Cloud Storage
type CloudStorageStore struct {
	client     *storage.Client
	bucketName string
	duration   time.Duration
	prefix     string
}

// NewCloudStorageStore creates a Cloud Storage summary store
func NewCloudStorageStore(ctx context.Context, bucketName string, duration time.Duration) (*CloudStorageStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	return &CloudStorageStore{
		client:     client,
		bucketName: bucketName,
		duration:   duration,
		prefix:     "summary/",
	}, nil
}

// Get retrieves summary points for a key
func (c *CloudStorageStore) Get(ctx context.Context, key string) ([]string, error) {
	obj := c.client.Bucket(c.bucketName).Object(c.prefix + key + ".json")

	reader, err := obj.NewReader(ctx)
	if err != nil {
		if err == storage.ErrObjectNotExist {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("opening object reader: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading object data: %w", err)
	}

	var entry summaryEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshaling summary entry: %w", err)
	}

	if time.Now().After(entry.ExpiresAt) {
		// clean up lazily, next request recomputes
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			obj.Delete(bgCtx)
		}()
		return nil, ErrCacheMiss
	}

	return entry.Points, nil
}

// Set stores summary points under a key
func (c *CloudStorageStore) Set(ctx context.Context, key string, points []string) error {
	now := time.Now()
	entry := summaryEntry{
		Key:       key,
		Points:    points,
		CreatedAt: now,
		ExpiresAt: now.Add(c.duration),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling summary entry: %w", err)
	}

	obj := c.client.Bucket(c.bucketName).Object(c.prefix + key + ".json")
	writer := obj.NewWriter(ctx)
	writer.ContentType = "application/json"

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("writing object data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing object writer: %w", err)
	}

	return nil
}

// Stats walks the bucket prefix and aggregates entry counts and ages
func (c *CloudStorageStore) Stats(ctx context.Context) (*Stats, error) {
	bucket := c.client.Bucket(c.bucketName)
	it := bucket.Objects(ctx, &storage.Query{Prefix: c.prefix})

	stats := &Stats{}
	var totalAge time.Duration
	now := time.Now()

	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing objects: %w", err)
		}

		stats.TotalEntries++
		stats.TotalBytes += attrs.Size

		if stats.OldestEntry.IsZero() || attrs.Created.Before(stats.OldestEntry) {
			stats.OldestEntry = attrs.Created
		}
		totalAge += now.Sub(attrs.Created)
	}

	if stats.TotalEntries > 0 {
		stats.AverageAge = totalAge / time.Duration(stats.TotalEntries)
	}

	return stats, nil
}

// Purge removes every entry under the summary prefix
func (c *CloudStorageStore) Purge(ctx context.Context) error {
	bucket := c.client.Bucket(c.bucketName)
	it := bucket.Objects(ctx, &storage.Query{Prefix: c.prefix})

	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("listing objects: %w", err)
		}

		if err := bucket.Object(attrs.Name).Delete(ctx); err != nil {
			return fmt.Errorf("deleting object %s: %w", attrs.Name, err)
		}
	}

	return nil
}

// Close closes the Cloud Storage client
func (c *CloudStorageStore) Close() error {
	return c.client.Close()
}

// MemorySummaryStore implements SummaryStore in memory, for local runs
// and tests
type MemorySummaryStore struct {
	entries  map[string]*summaryEntry
	mutex    sync.RWMutex
	duration time.Duration
}

// NewMemorySummaryStore creates an in-memory summary store
func NewMemorySummaryStore(duration time.Duration) *MemorySummaryStore {
	return &MemorySummaryStore{
		entries:  make(map[string]*summaryEntry),
		duration: duration,
	}
}

func (m *MemorySummaryStore) Get(ctx context.Context, key string) ([]string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	entry, exists := m.entries[key]
	if !exists || time.Now().After(entry.ExpiresAt) {
		return nil, ErrCacheMiss
	}
	return entry.Points, nil
}

func (m *MemorySummaryStore) Set(ctx context.Context, key string, points []string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := time.Now()
	m.entries[key] = &summaryEntry{
		Key:       key,
		Points:    points,
		CreatedAt: now,
		ExpiresAt: now.Add(m.duration),
	}
	return nil
}

func (m *MemorySummaryStore) Stats(ctx context.Context) (*Stats, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	stats := &Stats{TotalEntries: len(m.entries)}
	var totalAge time.Duration
	now := time.Now()
	for _, entry := range m.entries {
		if stats.OldestEntry.IsZero() || entry.CreatedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = entry.CreatedAt
		}
		totalAge += now.Sub(entry.CreatedAt)
	}
	if len(m.entries) > 0 {
		stats.AverageAge = totalAge / time.Duration(len(m.entries))
	}
	return stats, nil
}

func (m *MemorySummaryStore) Purge(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.entries = make(map[string]*summaryEntry)
	return nil
}

func (m *MemorySummaryStore) Close() error {
	return nil
}

// NewSummaryStore selects a durable backend by configured type
func NewSummaryStore(ctx context.Context, storeType, bucket string, duration time.Duration) (SummaryStore, error) {
	switch storeType {
	case "memory":
		return NewMemorySummaryStore(duration), nil
	case "cloud-storage":
		return NewCloudStorageStore(ctx, bucket, duration)
	default:
		return nil, fmt.Errorf("unsupported durable cache type: %s", storeType)
	}
}
