package database

import (
	"context"
	"testing"
)

func TestConnectDSNRejectsMalformedDSN(t *testing.T) {
	if _, err := ConnectDSN(context.Background(), "host=localhost port=nope", 5); err == nil {
		t.Fatal("ConnectDSN() accepted a malformed DSN")
	}
}
