package snowflake

import (
	"strconv"
	"testing"
	"time"
)

func TestGenerator_Unique(t *testing.T) {
	g := NewGenerator(1)

	seen := make(map[string]bool)
	for i := 0; i < 5000; i++ {
		id := g.Next()
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestGenerator_TimeOrdered(t *testing.T) {
	g := NewGenerator(1)

	a, _ := strconv.ParseInt(g.Next(), 10, 64)
	time.Sleep(2 * time.Millisecond)
	b, _ := strconv.ParseInt(g.Next(), 10, 64)

	if b <= a {
		t.Errorf("later id %d not greater than earlier id %d", b, a)
	}
}

func TestTimestamp(t *testing.T) {
	g := NewGenerator(3)

	before := time.Now().Add(-time.Second)
	id := g.Next()
	after := time.Now().Add(time.Second)

	ts, ok := Timestamp(id)
	if !ok {
		t.Fatalf("Timestamp(%q) not ok", id)
	}
	if ts.Before(before) || ts.After(after) {
		t.Errorf("embedded timestamp %v outside [%v, %v]", ts, before, after)
	}
}

func TestTimestamp_Invalid(t *testing.T) {
	if _, ok := Timestamp("not-a-number"); ok {
		t.Error("expected not ok for non-numeric id")
	}
}
