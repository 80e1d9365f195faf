package blob

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestS3MockPutGetListDelete(t *testing.T) {
	store := NewMockS3ForTests()
	ctx := context.Background()

	if store.Driver() != DriverS3 {
		t.Fatalf("driver = %s", store.Driver())
	}

	info, err := store.Put(ctx, "results/01.08.json", strings.NewReader(`{"PM":{}}`), PutOptions{ContentType: "application/json"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "results/01.08.json" {
		t.Fatalf("put info = %+v", info)
	}

	// Second put replaces the object.
	if _, err := store.Put(ctx, "results/01.08.json", strings.NewReader(`{"PM":{"underenrolled":true}}`), PutOptions{ContentType: "application/json"}); err != nil {
		t.Fatalf("replace put: %v", err)
	}
	_, rc, err := store.Get(ctx, "results/01.08.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(body), "underenrolled") {
		t.Fatalf("body = %s", body)
	}

	if _, err := store.Put(ctx, "results/02.08.json", strings.NewReader("{}"), PutOptions{}); err != nil {
		t.Fatalf("put second: %v", err)
	}
	infos, err := store.List(ctx, "results/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "results/01.08.json" || infos[1].Key != "results/02.08.json" {
		t.Fatalf("list = %+v", infos)
	}

	ok, err := store.Delete(ctx, "results/02.08.json")
	if err != nil || !ok {
		t.Fatalf("delete = %v, %v", ok, err)
	}
	if _, err := store.Head(ctx, "results/02.08.json"); err == nil {
		t.Fatalf("deleted object still visible")
	}
	ok, err = store.Delete(ctx, "results/02.08.json")
	if err != nil || ok {
		t.Fatalf("delete of missing key = %v, %v, want false, nil", ok, err)
	}
}

func TestS3MockPresign(t *testing.T) {
	store := NewMockS3ForTests()
	url, err := store.PresignURL(context.Background(), "results/01.08.json", SignedURLOptions{})
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.Contains(url, "results/01.08.json") {
		t.Fatalf("url = %s", url)
	}
	if _, err := store.PresignURL(context.Background(), "x", SignedURLOptions{Method: "PUT"}); err == nil {
		t.Fatalf("expected unsupported method error")
	}
}

func TestNewS3RequiresBucket(t *testing.T) {
	if _, err := NewS3(context.Background(), S3Config{}); err == nil {
		t.Fatalf("expected bucket required error")
	}
}
