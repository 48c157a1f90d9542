// Package s3test provides scratch buckets for tests: backed by an in-memory
// gofakes3 server by default, or by a real endpoint when
// PHRASEBOOK_TEST_S3_ENDPOINT is set.
package s3test

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"net/http/httptest"
	"os"
	"sort"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
)

// Bucket is an S3 bucket that is emptied when the test ends. Buckets the
// package created itself are also deleted.
type Bucket struct {
	Client *s3.S3
	Name   string
}

// NewBucket returns an empty bucket for t. PHRASEBOOK_TEST_S3_BUCKET names
// an existing bucket to reuse; otherwise a randomly named one is created.
func NewBucket(t testing.TB) *Bucket {
	t.Helper()
	ctx := context.Background()
	var client *s3.S3
	var err error
	if os.Getenv("PHRASEBOOK_TEST_S3_ENDPOINT") != "" {
		client, err = newEndpointClient()
	} else {
		var stop func()
		client, stop, err = newFakeClient()
		if stop != nil {
			t.Cleanup(stop)
		}
	}
	if err != nil {
		t.Fatalf("s3 client: %v", err)
	}

	b := &Bucket{Client: client, Name: os.Getenv("PHRASEBOOK_TEST_S3_BUCKET")}
	if b.Name == "" {
		b.Name = randBucketName()
		_, err := client.CreateBucketWithContext(ctx, &s3.CreateBucketInput{Bucket: &b.Name})
		if err != nil {
			t.Fatalf("create bucket %s: %v", b.Name, err)
		}
		t.Cleanup(func() {
			client.DeleteBucketWithContext(ctx, &s3.DeleteBucketInput{Bucket: &b.Name})
		})
	} else if err := b.empty(ctx); err != nil {
		t.Fatalf("empty bucket %s: %v", b.Name, err)
	}
	// registered last so it runs before the bucket is deleted
	t.Cleanup(func() { b.empty(ctx) })
	return b
}

// SeedDocuments writes each translation document in docs under
// prefix+name, the way a deployment would publish its locale files.
func (b *Bucket) SeedDocuments(ctx context.Context, prefix string, docs map[string]string) error {
	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, err := b.Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
			Bucket:      &b.Name,
			Key:         aws.String(prefix + name),
			Body:        bytes.NewReader([]byte(docs[name])),
			ContentType: aws.String("application/yaml"),
		})
		if err != nil {
			return fmt.Errorf("seed %s%s: %w", prefix, name, err)
		}
	}
	return nil
}

// Keys lists the object keys under prefix, in bucket order.
func (b *Bucket) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := b.Client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: &b.Name,
		Prefix: &prefix,
	}, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, o := range page.Contents {
			keys = append(keys, aws.StringValue(o.Key))
		}
		return true
	})
	return keys, err
}

func (b *Bucket) empty(ctx context.Context) error {
	keys, err := b.Keys(ctx, "")
	if err != nil {
		return err
	}
	// DeleteObjects takes at most 1000 keys per request
	for len(keys) > 0 {
		n := len(keys)
		if n > 1000 {
			n = 1000
		}
		ids := make([]*s3.ObjectIdentifier, n)
		for i, k := range keys[:n] {
			ids[i] = &s3.ObjectIdentifier{Key: aws.String(k)}
		}
		_, err := b.Client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
			Bucket: &b.Name,
			Delete: &s3.Delete{Objects: ids, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return err
		}
		keys = keys[n:]
	}
	return nil
}

func newEndpointClient() (*s3.S3, error) {
	config := aws.Config{
		Credentials: credentials.NewStaticCredentials(
			os.Getenv("AWS_ACCESS_KEY_ID"),
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			os.Getenv("AWS_SESSION_TOKEN"),
		),
		Endpoint:         aws.String(os.Getenv("PHRASEBOOK_TEST_S3_ENDPOINT")),
		S3ForcePathStyle: aws.Bool(true),
		Region:           aws.String("not-using-AWS"),
	}
	// With AWS_REGION set, let the SDK pick the endpoint for real AWS S3.
	if region := os.Getenv("AWS_REGION"); region != "" {
		config.Region = aws.String(region)
		config.Endpoint = nil
	}
	sess, err := session.NewSession(&config)
	if err != nil {
		return nil, err
	}
	return s3.New(sess), nil
}

func newFakeClient() (*s3.S3, func(), error) {
	faker := gofakes3.New(s3mem.New())
	ts := httptest.NewServer(faker.Server())
	sess, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials("TEST-ACCESSKEYID", "TEST-SECRETACCESSKEY", ""),
		Endpoint:         aws.String(ts.URL),
		Region:           aws.String("ca-west-1"),
		DisableSSL:       aws.Bool(true),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		ts.Close()
		return nil, nil, err
	}
	return s3.New(sess), ts.Close, nil
}

func randBucketName() string {
	i, err := rand.Int(rand.Reader, big.NewInt(math.MaxUint32))
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("phrasebook-%s", i)
}
