package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// ResourceCacheTTL bounds staleness if an invalidation is ever missed.
	ResourceCacheTTL = 10 * time.Minute

	resourceCacheKeyPrefix = "resource"
)

// CachedResource is the read model of a resource stored as a Redis hash.
type CachedResource struct {
	ID                uuid.UUID `json:"id"`
	OrganizationID    uuid.UUID `json:"organization_id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	Description       string    `json:"description"`
	QuantityTotal     int       `json:"quantity_total"`
	QuantityAvailable int       `json:"quantity_available"`
	SerialNumber      string    `json:"serial_number"`
	IsReturnable      bool      `json:"is_returnable"`
	Status            string    `json:"status"`
	Location          string    `json:"location"`
	CustodySeq        int64     `json:"custody_seq"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ResourceCache is a read-through cache of resources.
// Every committed custody change deletes the entry.
// Key format: "resource:{resourceID}"
type ResourceCache struct {
	client *RedisClient
}

// NewResourceCache creates a ResourceCache backed by the given RedisClient.
func NewResourceCache(r *RedisClient) *ResourceCache {
	return &ResourceCache{client: r}
}

// Get retrieves a cached resource.
// Returns redis.Nil when the key does not exist or has expired.
func (c *ResourceCache) Get(ctx context.Context, id uuid.UUID) (*CachedResource, error) {
	vals, err := c.client.Client().HGetAll(ctx, key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}
	return decodeResource(vals)
}

// Set writes the resource hash and its TTL in one pipeline.
func (c *ResourceCache) Set(ctx context.Context, r *CachedResource) error {
	k := key(r.ID)
	pipe := c.client.Client().Pipeline()
	pipe.HSet(ctx, k, encodeResource(r))
	pipe.Expire(ctx, k, ResourceCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached resource.
func (c *ResourceCache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Client().Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func key(id uuid.UUID) string {
	return fmt.Sprintf("%s:%s", resourceCacheKeyPrefix, id)
}

func encodeResource(r *CachedResource) map[string]any {
	return map[string]any{
		"id":                 r.ID.String(),
		"organization_id":    r.OrganizationID.String(),
		"name":               r.Name,
		"category":           r.Category,
		"description":        r.Description,
		"quantity_total":     strconv.Itoa(r.QuantityTotal),
		"quantity_available": strconv.Itoa(r.QuantityAvailable),
		"serial_number":      r.SerialNumber,
		"is_returnable":      strconv.FormatBool(r.IsReturnable),
		"status":             r.Status,
		"location":           r.Location,
		"custody_seq":        strconv.FormatInt(r.CustodySeq, 10),
		"created_at":         r.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at":         r.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func decodeResource(vals map[string]string) (*CachedResource, error) {
	r := &CachedResource{
		Name:         vals["name"],
		Category:     vals["category"],
		Description:  vals["description"],
		SerialNumber: vals["serial_number"],
		Status:       vals["status"],
		Location:     vals["location"],
	}
	var err error
	if r.ID, err = uuid.Parse(vals["id"]); err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	if r.OrganizationID, err = uuid.Parse(vals["organization_id"]); err != nil {
		return nil, fmt.Errorf("cache parse organization_id: %w", err)
	}
	if r.QuantityTotal, err = strconv.Atoi(vals["quantity_total"]); err != nil {
		return nil, fmt.Errorf("cache parse quantity_total: %w", err)
	}
	if r.QuantityAvailable, err = strconv.Atoi(vals["quantity_available"]); err != nil {
		return nil, fmt.Errorf("cache parse quantity_available: %w", err)
	}
	if r.IsReturnable, err = strconv.ParseBool(vals["is_returnable"]); err != nil {
		return nil, fmt.Errorf("cache parse is_returnable: %w", err)
	}
	if r.CustodySeq, err = strconv.ParseInt(vals["custody_seq"], 10, 64); err != nil {
		return nil, fmt.Errorf("cache parse custody_seq: %w", err)
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, vals["created_at"]); err != nil {
		return nil, fmt.Errorf("cache parse created_at: %w", err)
	}
	if r.UpdatedAt, err = time.Parse(time.RFC3339Nano, vals["updated_at"]); err != nil {
		return nil, fmt.Errorf("cache parse updated_at: %w", err)
	}
	return r, nil
}
