package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"goodgood/internal/config"
	"goodgood/internal/gg"
)

// S3Vault stores archives as objects in an S3 bucket:
//
//	s3://<bucket>/<prefix>/<id>
//
// Uploads go through the multipart upload manager so large archives are
// streamed in parts.
type S3Vault struct {
	name     string
	bucket   string
	prefix   string
	client   *s3.Client
	uploader *manager.Uploader
}

// NewS3Vault creates an S3 vault from configuration. Region and
// credentials fall back to the AWS default chain when not configured.
func NewS3Vault(ctx context.Context, cfg config.VaultConfig) (*S3Vault, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 vault requires s3_bucket to be set")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
			// S3-compatible stores commonly reject the newer default checksums.
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		}
	})

	return &S3Vault{
		name:     cfg.Name,
		bucket:   cfg.S3Bucket,
		prefix:   strings.Trim(cfg.S3Prefix, "/"),
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

// key returns the object key for an archive ID.
func (v *S3Vault) key(id string) string {
	if v.prefix == "" {
		return id
	}
	return path.Join(v.prefix, id)
}

// listPrefix is the key prefix shared by every archive in this vault.
func (v *S3Vault) listPrefix() string {
	if v.prefix == "" {
		return ""
	}
	return v.prefix + "/"
}

// Put uploads an archive under id and verifies that exactly size bytes were sent.
func (v *S3Vault) Put(id string, r io.Reader, size int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	cr := &countingReader{r: r}
	_, err := v.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.key(id)),
		Body:   cr,
	})
	if err != nil {
		return fmt.Errorf("uploading %s to s3://%s: %w", id, v.bucket, err)
	}
	if cr.n != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, cr.n)
	}
	return nil
}

// Get downloads the archive stored under id and writes it to w.
func (v *S3Vault) Get(id string, w io.Writer) error {
	if err := validateID(id); err != nil {
		return err
	}
	out, err := v.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.key(id)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return fmt.Errorf("archive not found: %s", id)
		}
		return fmt.Errorf("downloading %s from s3://%s: %w", id, v.bucket, err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("reading %s from s3://%s: %w", id, v.bucket, err)
	}
	return nil
}

// List returns the archive IDs under the vault prefix in ascending order.
// Objects in deeper "directories" are not archives of this vault and are skipped.
func (v *S3Vault) List() ([]string, error) {
	prefix := v.listPrefix()
	p := s3.NewListObjectsV2Paginator(v.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(v.bucket),
		Prefix: aws.String(prefix),
	})

	var ids []string
	for p.HasMorePages() {
		page, err := p.NextPage(context.Background())
		if err != nil {
			return nil, fmt.Errorf("listing s3://%s/%s: %w", v.bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			id := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if validateID(id) != nil {
				continue
			}
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// ValidateSetup checks that the bucket exists and is reachable with the
// configured credentials.
func (v *S3Vault) ValidateSetup() error {
	_, err := v.client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(v.bucket),
	})
	if err != nil {
		return fmt.Errorf("s3 bucket %s not accessible: %w", v.bucket, err)
	}
	return nil
}

// Compile-time check that S3Vault implements gg.Vault interface
var _ gg.Vault = (*S3Vault)(nil)
