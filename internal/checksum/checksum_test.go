package checksum

import (
	"testing"
	"time"
)

func TestSumStable(t *testing.T) {
	if Sum([]byte("card")) != Sum([]byte("card")) {
		t.Fatal("digest not stable")
	}
	if Sum([]byte("a")) == Sum([]byte("b")) {
		t.Fatal("distinct inputs collide")
	}
}

func TestTimesIgnoresOrder(t *testing.T) {
	a := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	if Times([]time.Time{a, b}) != Times([]time.Time{b, a}) {
		t.Error("order should not change the digest")
	}
	if Times([]time.Time{a, b}) == Times([]time.Time{a, b, b}) {
		t.Error("duplicates should change the digest")
	}
	if Times(nil) != Times([]time.Time{}) {
		t.Error("nil and empty should match")
	}
}

func TestTimesOutsideNanoRange(t *testing.T) {
	early := []time.Time{time.Date(1500, 1, 1, 0, 0, 0, 0, time.UTC)}
	later := []time.Time{time.Date(1600, 1, 1, 0, 0, 0, 0, time.UTC)}
	if Times(early) == Times(later) {
		t.Error("pre-1678 dates should not collide")
	}
	far := []time.Time{time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)}
	farther := []time.Time{time.Date(2400, 1, 1, 0, 0, 0, 0, time.UTC)}
	if Times(far) == Times(farther) {
		t.Error("post-2262 dates should not collide")
	}
}
