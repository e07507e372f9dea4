// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage archives generated PDFs in an S3-compatible bucket. It
// wraps the AWS SDK v2 with path-style access, which CEPH and MinIO need.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"docstudio/internal/slug"
)

const pdfContentType = "application/pdf"

// Archive stores documents in a single private bucket.
type Archive struct {
	s3        *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

// New creates an archive client. Returns (nil, nil) if the endpoint or
// bucket is empty, allowing the app to start without archiving. Without a
// static key pair the SDK's default credential chain is used (environment,
// shared config, instance role).
func New(endpoint, region, accessKey, secretKey, bucket string) (*Archive, error) {
	if endpoint == "" || bucket == "" {
		return nil, nil
	}
	if region == "" {
		return nil, fmt.Errorf("storage: region is required")
	}
	if (accessKey == "") != (secretKey == "") {
		return nil, fmt.Errorf("storage: access key and secret key must be set together")
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}
	if accessKey != "" {
		cfg.Credentials = credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(strings.TrimRight(endpoint, "/"))
		o.UsePathStyle = true
	})

	return &Archive{
		s3:        client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
	}, nil
}

// Bucket returns the bucket name.
func (a *Archive) Bucket() string { return a.bucket }

// Put stores a PDF under key.
func (a *Archive) Put(ctx context.Context, key string, data []byte) error {
	_, err := a.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(a.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(data),
		ContentLength:      aws.Int64(int64(len(data))),
		ContentType:        aws.String(pdfContentType),
		ContentDisposition: aws.String(`attachment; filename="` + path.Base(key) + `"`),
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", a.bucket, key, err)
	}
	return nil
}

// Get retrieves an archived document.
func (a *Archive) Get(ctx context.Context, key string) ([]byte, error) {
	output, err := a.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 download %s/%s: %w", a.bucket, key, err)
	}
	defer output.Body.Close()
	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read body %s/%s: %w", a.bucket, key, err)
	}
	return data, nil
}

// Delete removes an archived document.
func (a *Archive) Delete(ctx context.Context, key string) error {
	_, err := a.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", a.bucket, key, err)
	}
	return nil
}

// PresignedURL returns a time-limited download link for key (at most 7
// days).
func (a *Archive) PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := a.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("s3 presign %s/%s: %w", a.bucket, key, err)
	}
	return req.URL, nil
}

// ContractKey builds the object key for a generated document:
// contracts/<yyyy>/<mm>/<id>/<filename>. The file name is reduced to
// ASCII.
func ContractKey(now time.Time, id uuid.UUID, filename string) string {
	name := slug.Filename(path.Base(strings.ReplaceAll(filename, `\`, "/")))
	if name == "" {
		name = "document.pdf"
	}
	return fmt.Sprintf("contracts/%04d/%02d/%s/%s", now.Year(), int(now.Month()), id, name)
}
