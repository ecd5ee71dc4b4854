package storage

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"marketplace-platform/internal/config"
)

const awsServiceS3 = "s3"

// S3Store uploads objects with a SigV4-signed PUT over plain
// net/http. Works against AWS and S3-compatible endpoints (minio,
// localstack) via config.S3.Endpoint.
type S3Store struct {
	bucket     string
	region     string
	accessKey  string
	secretKey  string
	endpoint   string
	httpClient *http.Client
	clock      func() time.Time
}

func NewS3Store(cfg config.S3Config) (*S3Store, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, errors.New("s3 bucket and region are required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("s3 credentials are required")
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = "https://" + cfg.Bucket + ".s3." + cfg.Region + ".amazonaws.com"
	} else {
		// Path-style addressing for custom endpoints.
		endpoint = endpoint + "/" + cfg.Bucket
	}
	return &S3Store{
		bucket:     cfg.Bucket,
		region:     cfg.Region,
		accessKey:  cfg.AccessKey,
		secretKey:  cfg.SecretKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		clock:      time.Now,
	}, nil
}

func (s *S3Store) WithClock(clock func() time.Time) *S3Store {
	s.clock = clock
	return s
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if key == "" {
		return "", errors.New("object key is required")
	}

	target := s.endpoint + "/" + url.PathEscape(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	now := s.clock().UTC()
	amzDate := now.Format("20060102T150405Z")
	req.Header.Set("X-Amz-Date", amzDate)
	payloadHash := sha256Hex(data)
	req.Header.Set("X-Amz-Content-Sha256", payloadHash)

	if err := s.signRequest(req, payloadHash, amzDate); err != nil {
		return "", err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("s3 put failed: status %d", resp.StatusCode)
	}

	return s.publicURL(key), nil
}

func (s *S3Store) publicURL(key string) string {
	return "https://" + s.bucket + ".s3." + s.region + ".amazonaws.com/" + key
}

func (s *S3Store) signRequest(req *http.Request, payloadHash, amzDate string) error {
	host := req.URL.Host
	if host == "" {
		return errors.New("s3 host missing")
	}
	req.Header.Set("Host", host)

	date := amzDate[:8]

	canonicalHeaders, signedHeaders := buildCanonicalHeaders(req.Header)
	canonicalRequest := strings.Join([]string{
		req.Method,
		req.URL.EscapedPath(),
		req.URL.RawQuery,
		canonicalHeaders,
		signedHeaders,
		payloadHash,
	}, "\n")

	scope := date + "/" + s.region + "/" + awsServiceS3 + "/aws4_request"
	stringToSign := strings.Join([]string{
		"AWS4-HMAC-SHA256",
		amzDate,
		scope,
		sha256Hex([]byte(canonicalRequest)),
	}, "\n")

	signingKey := deriveSigningKey(s.secretKey, date, s.region, awsServiceS3)
	signature := hmacHex(signingKey, []byte(stringToSign))

	req.Header.Set("Authorization", fmt.Sprintf(
		"AWS4-HMAC-SHA256 Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		s.accessKey,
		scope,
		signedHeaders,
		signature,
	))
	return nil
}

func buildCanonicalHeaders(headers http.Header) (string, string) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, strings.ToLower(k))
	}
	sort.Strings(keys)
	var canonical strings.Builder
	for _, key := range keys {
		values := headers.Values(key)
		for i := range values {
			values[i] = strings.TrimSpace(values[i])
		}
		canonical.WriteString(key)
		canonical.WriteString(":")
		canonical.WriteString(strings.Join(values, ","))
		canonical.WriteString("\n")
	}
	return canonical.String(), strings.Join(keys, ";")
}

func deriveSigningKey(secret, date, region, service string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secret), []byte(date))
	kRegion := hmacSHA256(kDate, []byte(region))
	kService := hmacSHA256(kRegion, []byte(service))
	return hmacSHA256(kService, []byte("aws4_request"))
}

func hmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

func hmacHex(key, data []byte) string {
	return hex.EncodeToString(hmacSHA256(key, data))
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
