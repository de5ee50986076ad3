package aws

import (
	"bytes"
	"context"
	"ecards-backend/core"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
)

type draftStore struct {
	s3Client *s3.Client
	bucket   string // Name of the S3 bucket
}

func NewDraftStore(bucketName string) core.DraftStore {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		logrus.Fatalf("unable to load SDK config, %v", err)
	}

	return &draftStore{
		s3Client: s3.NewFromConfig(cfg),
		bucket:   bucketName,
	}
}

func (s *draftStore) FindID(ctx context.Context, id string) (core.Draft, error) {
	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("draft with id %s: %w", id, core.ErrDraftNotFound)
		}
		return nil, fmt.Errorf("failed to get draft with id %s: %w", id, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft data: %w", err)
	}

	draft := core.Draft{}
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft %s: %w", id, err)
	}
	return draft, nil
}

func (s *draftStore) Upsert(ctx context.Context, draft core.Draft) (core.Draft, error) {
	// No existence probe here; a ULID collision is not a practical concern
	// and PutObject overwrites by key anyway.
	if draft.ID() == "" {
		draft.SetID(core.NewDraftID())
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft: %w", err)
	}

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(draft.ID()),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload draft: %w", err)
	}
	return draft, nil
}
