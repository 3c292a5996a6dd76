package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/vdiff/internal/errors"
)

// fakeS3 is an in-memory bucket implementing S3API.
type fakeS3 struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
	lists        int
	putErr       error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = data
	f.contentTypes[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++

	bucket := aws.ToString(in.Bucket) + "/"
	var keys []string
	for k := range f.objects {
		if !strings.HasPrefix(k, bucket) {
			continue
		}
		k = strings.TrimPrefix(k, bucket)
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ContinuationToken != nil {
		fmt.Sscanf(*in.ContinuationToken, "%d", &start)
	}
	end := len(keys)
	if in.MaxKeys != nil && *in.MaxKeys > 0 && start+int(*in.MaxKeys) < end {
		end = start + int(*in.MaxKeys)
	}

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(fmt.Sprint(end))
	}
	return out, nil
}

func TestS3Store(t *testing.T) {
	fake := newFakeS3()
	exercise(t, NewS3Store(fake, "bucket", "archive/"))

	if _, ok := fake.objects["bucket/archive/"+Key("s1", 0)]; !ok {
		t.Errorf("objects = %v, want keys under the store prefix", fake.objects)
	}
	if ct := fake.contentTypes["bucket/archive/"+Key("s2", 0)]; ct != ContentType {
		t.Errorf("ContentType = %q", ct)
	}
}

func TestS3StoreListPages(t *testing.T) {
	fake := newFakeS3()
	st := NewS3Store(fake, "bucket", "").WithPageSize(2)
	ctx := context.Background()
	for seq := uint64(0); seq < 5; seq++ {
		if err := st.Put(ctx, Key("s", seq), []byte{byte(seq)}); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := st.List(ctx, SessionPrefix("s"))
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 5 || keys[0] != Key("s", 0) || keys[4] != Key("s", 4) {
		t.Errorf("List() = %v", keys)
	}
	if fake.lists != 3 {
		t.Errorf("ListObjectsV2 called %d times, want 3", fake.lists)
	}
}

func TestS3StorePutError(t *testing.T) {
	fake := newFakeS3()
	fake.putErr = fmt.Errorf("connection reset")
	err := NewS3Store(fake, "bucket", "").Put(context.Background(), "k", []byte("x"))
	if !errors.Is(err, errors.CodeStoreWrite) {
		t.Fatalf("Put() error = %v", err)
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("error should carry the cause: %v", err)
	}
}
