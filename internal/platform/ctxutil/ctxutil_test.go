package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRequestDataRoundTrip(t *testing.T) {
	id := uuid.New()
	ctx := WithRequestData(context.Background(), &RequestData{UserID: id, TokenString: "t"})
	if got := UserID(ctx); got != id {
		t.Fatalf("UserID: got %s want %s", got, id)
	}
	if UserID(context.Background()) != uuid.Nil {
		t.Fatalf("expected nil uuid without request data")
	}
}

func TestTraceData(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "tr", RequestID: "rq"})
	td := GetTraceData(ctx)
	if td == nil || td.TraceID != "tr" || td.RequestID != "rq" {
		t.Fatalf("unexpected trace data: %+v", td)
	}
	if GetTraceData(Default(nil)) != nil {
		t.Fatalf("expected nil trace data on background context")
	}
}
