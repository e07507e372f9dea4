package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewUnconfigured(t *testing.T) {
	tests := []struct {
		name                                     string
		endpoint, region, access, secret, bucket string
	}{
		{"no endpoint", "", "eu-central", "k", "s", "b"},
		{"no bucket", "http://localhost:9000", "eu-central", "k", "s", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.endpoint, tt.region, tt.access, tt.secret, tt.bucket)
			if a != nil || err != nil {
				t.Errorf("got %v, %v; want nil, nil", a, err)
			}
		})
	}
}

func TestNewDefaultCredentials(t *testing.T) {
	a, err := New("http://localhost:9000", "us-east-1", "", "", "docs")
	if err != nil || a == nil {
		t.Fatalf("New without static keys: %v, %v", a, err)
	}
}

func TestNewRequiresKeyPair(t *testing.T) {
	if _, err := New("http://localhost:9000", "us-east-1", "k", "", "docs"); err == nil {
		t.Error("expected error with an access key but no secret")
	}
}

func TestNewRequiresRegion(t *testing.T) {
	if _, err := New("http://localhost:9000", "", "k", "s", "docs"); err == nil {
		t.Error("expected error without region")
	}
}

func TestPresignedURL(t *testing.T) {
	a, err := New("http://localhost:9000/", "us-east-1", "AKIDEXAMPLE", "secret", "docs")
	if err != nil || a == nil {
		t.Fatalf("New: %v, %v", a, err)
	}
	if a.Bucket() != "docs" {
		t.Errorf("bucket = %q", a.Bucket())
	}

	// Presigning is local: it needs no reachable endpoint.
	u, err := a.PresignedURL(context.Background(), "contracts/2026/10/x/Contrato.pdf", 15*time.Minute)
	if err != nil {
		t.Fatalf("PresignedURL: %v", err)
	}
	for _, want := range []string{"http://localhost:9000/docs/contracts/2026/10/x/Contrato.pdf", "X-Amz-Expires=900", "X-Amz-Signature="} {
		if !strings.Contains(u, want) {
			t.Errorf("url %q missing %q", u, want)
		}
	}
}

func TestContractKey(t *testing.T) {
	id := uuid.MustParse("01890a5d-ac96-774b-bcce-b302099a8057")
	now := time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC)
	tests := map[string]string{
		"Contrato_Acme_Corp.pdf": "contracts/2026/03/" + id.String() + "/Contrato_Acme_Corp.pdf",
		"../../etc/passwd":       "contracts/2026/03/" + id.String() + "/passwd",
		`..\evil.pdf`:            "contracts/2026/03/" + id.String() + "/evil.pdf",
		"":                       "contracts/2026/03/" + id.String() + "/document.pdf",
		"Contrato_João_Ltda.pdf": "contracts/2026/03/" + id.String() + "/Contrato_Joao_Ltda.pdf",
		"???":                    "contracts/2026/03/" + id.String() + "/document.pdf",
	}
	for in, want := range tests {
		if got := ContractKey(now, id, in); got != want {
			t.Errorf("ContractKey(%q) = %q, want %q", in, got, want)
		}
	}
}
