package store

import (
	"testing"
	"time"
)

func TestOpenMemory(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Fatal(err)
	}
}

func TestAddAndBySession(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	now := time.Now()
	id, err := db.Add(&Transfer{
		SessionID:    "sess-1",
		RemoteAddr:   "127.0.0.1:50000",
		Filename:     "a.txt",
		Path:         "/srv/files/a.txt",
		DeclaredSize: 100,
		ReceivedSize: 100,
		Digest:       "abcd",
		Status:       StatusComplete,
		StartedAt:    now,
		FinishedAt:   now.Add(time.Second),
	})
	if err != nil {
		t.Fatal(err)
	}
	if id <= 0 {
		t.Fatal("expected positive id")
	}

	got, err := db.BySession("sess-1")
	if err != nil || got == nil {
		t.Fatal("BySession sess-1", err)
	}
	if got.Filename != "a.txt" || got.ReceivedSize != 100 || got.Status != StatusComplete {
		t.Fatalf("transfer mismatch: %+v", got)
	}
	if got.FinishedAt.Before(got.StartedAt) {
		t.Fatalf("timestamps out of order: %+v", got)
	}

	missing, err := db.BySession("nope")
	if err != nil || missing != nil {
		t.Fatalf("BySession(nope) should be nil: %+v %v", missing, err)
	}
}

func TestDuplicateSessionRejected(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rec := &Transfer{SessionID: "dup", RemoteAddr: "a", Filename: "f", Path: "p",
		Status: StatusFailed, StartedAt: time.Now(), FinishedAt: time.Now()}
	if _, err := db.Add(rec); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Add(rec); err == nil {
		t.Fatal("expected unique constraint error")
	}
}

func TestListRecent(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	now := time.Now()
	for i, sess := range []string{"s1", "s2", "s3"} {
		_, err := db.Add(&Transfer{SessionID: sess, RemoteAddr: "r", Filename: "f", Path: "p",
			ReceivedSize: int64(i), Status: StatusComplete, StartedAt: now, FinishedAt: now})
		if err != nil {
			t.Fatal(err)
		}
	}
	list, err := db.ListRecent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d", len(list))
	}
	if list[0].SessionID != "s3" || list[1].SessionID != "s2" {
		t.Fatalf("order: %s, %s", list[0].SessionID, list[1].SessionID)
	}
}
