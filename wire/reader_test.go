package wire

import (
	"context"
	"testing"
)

func TestSliceSourcePutbackReplaysItem(t *testing.T) {
	ctx := context.Background()
	item1 := &Item{Header: PartHeader{PartID: 1, Type: TypePushvars}, Body: PushvarsBody{}}
	item2 := &Item{Header: PartHeader{PartID: 2, Type: TypePushkey}, Body: PushkeyBody{}}

	src := NewSliceSource(StartBody{}, []*Item{item1, item2})

	if _, err := src.ReadStart(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := src.Next(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != item1 {
		t.Fatalf("expected item1, got %+v", got)
	}

	if err := src.Putback(got); err != nil {
		t.Fatalf("unexpected error on putback: %v", err)
	}

	replayed, err := src.Next(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if replayed != item1 {
		t.Fatal("expected putback item to be replayed by the next Next call")
	}

	next, err := src.Next(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != item2 {
		t.Fatal("expected the stream to resume at item2")
	}

	end, err := src.Next(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end != nil {
		t.Fatal("expected end of stream")
	}
}

func TestSliceSourceDoublePutbackErrors(t *testing.T) {
	ctx := context.Background()
	item := &Item{Header: PartHeader{PartID: 1, Type: TypePushvars}, Body: PushvarsBody{}}
	src := NewSliceSource(StartBody{}, []*Item{item})

	got, _ := src.Next(ctx)
	if err := src.Putback(got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := src.Putback(got); err != ErrNoPutback {
		t.Fatalf("expected ErrNoPutback, got %v", err)
	}
}
