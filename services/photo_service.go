package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PhotoService stores profile photos in S3 and hands out presigned read
// URLs.
type PhotoService struct {
	Client *s3.Client
	Bucket string
}

// InitializeS3Client initializes the S3 client
func InitializeS3Client(region string) *s3.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return s3.NewFromConfig(cfg)
}

// UploadBase64Photo decodes a base64 payload (with or without a data-URL
// prefix), stores it under a timestamped key, and returns a presigned read
// URL plus the object path.
func (ps *PhotoService) UploadBase64Photo(ctx context.Context, userID, fileName, contentType, data string) (string, string, error) {
	if data == "" {
		return "", "", fmt.Errorf("%w: photo data is required", ErrValidation)
	}
	if idx := strings.Index(data, ","); idx != -1 && strings.HasPrefix(data, "data:") {
		data = data[idx+1:]
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", "", fmt.Errorf("%w: photo data is not valid base64", ErrValidation)
	}
	if fileName == "" {
		fileName = "photo"
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	key := "profile-photos/" + userID + "/" + time.Now().Format("20060102150405") + "-" + fileName
	_, err = ps.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(ps.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(decoded),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload photo: %w", err)
	}

	url, err := ps.ReadURL(ctx, key)
	if err != nil {
		return "", "", err
	}
	log.Printf("📷 Photo uploaded: %s", key)
	return url, key, nil
}

// ReadURL generates a presigned URL for reading a stored photo.
func (ps *PhotoService) ReadURL(ctx context.Context, key string) (string, error) {
	presigner := s3.NewPresignClient(ps.Client)
	presigned, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ps.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(24*time.Hour))
	if err != nil {
		return "", fmt.Errorf("failed to presign read URL for %s: %w", key, err)
	}
	return presigned.URL, nil
}
