// Package audio wraps the opaque text-to-speech collaborator
// (Synthesize(text, lang) -> bytes is an external service, out of scope
// to implement here) with an optional object-storage cache so repeated
// narrations of the same story text are not resynthesized. Patterned
// after an internal/gateway/repository/artifact s3_store.go:
// a minio.Client, a sync.Once bucket-creation guard, and Put/Get by key.
package audio

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sync"

	"github.com/minio/minio-go/v7"

	"narrator/internal/obslog"
)

// Synthesizer is the external TTS collaborator. Implementations are not
// part of this module; production wiring supplies a real voice service.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) (audioBytes []byte, contentType string, err error)
}

// Cache fronts a Synthesizer with a content-addressed object-storage
// cache. A nil object store degrades to calling the Synthesizer on every
// request.
type Cache struct {
	synth      Synthesizer
	client     *minio.Client
	bucket     string
	bucketOnce sync.Once
	bucketErr  error
}

// New wraps synth. client may be nil to disable caching outright.
func New(synth Synthesizer, client *minio.Client, bucket string) *Cache {
	return &Cache{synth: synth, client: client, bucket: bucket}
}

// Key derives the cache object key for a given story text and language.
// Content-addressed so identical stories in the same language always
// collide onto the same object regardless of which POI produced them.
func Key(text, lang string) string {
	sum := sha256.Sum256([]byte(lang + "\x00" + text))
	return hex.EncodeToString(sum[:]) + ".audio"
}

func (c *Cache) ensureBucket(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	c.bucketOnce.Do(func() {
		exists, err := c.client.BucketExists(ctx, c.bucket)
		if err != nil {
			c.bucketErr = err
			return
		}
		if !exists {
			c.bucketErr = c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
		}
	})
	return c.bucketErr
}

// Get returns cached audio bytes and content type for (text, lang), or
// false if nothing is cached or caching is disabled.
func (c *Cache) Get(ctx context.Context, text, lang string) ([]byte, string, bool) {
	if c.client == nil {
		return nil, "", false
	}
	if err := c.ensureBucket(ctx); err != nil {
		obslog.FromCtx(ctx).Warn().Err(err).Msg("audio: ensure bucket failed, bypassing cache")
		return nil, "", false
	}

	key := Key(text, lang)
	obj, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", false
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil || len(data) == 0 {
		return nil, "", false
	}
	stat, err := obj.Stat()
	contentType := "audio/mpeg"
	if err == nil && stat.ContentType != "" {
		contentType = stat.ContentType
	}
	return data, contentType, true
}

func (c *Cache) put(ctx context.Context, text, lang string, data []byte, contentType string) {
	if c.client == nil {
		return
	}
	if err := c.ensureBucket(ctx); err != nil {
		return
	}
	key := Key(text, lang)
	_, err := c.client.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		obslog.FromCtx(ctx).Warn().Err(err).Str("key", key).Msg("audio: cache write failed")
	}
}

// Synthesize returns cached audio for (text, lang) if present, otherwise
// calls the underlying Synthesizer and caches the result before
// returning it.
func (c *Cache) Synthesize(ctx context.Context, text, lang string) ([]byte, string, error) {
	if data, contentType, ok := c.Get(ctx, text, lang); ok {
		return data, contentType, nil
	}

	data, contentType, err := c.synth.Synthesize(ctx, text, lang)
	if err != nil {
		return nil, "", fmt.Errorf("synthesize: %w", err)
	}
	c.put(ctx, text, lang, data, contentType)
	return data, contentType, nil
}
