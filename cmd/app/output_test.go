package main

import (
	"testing"

	"github.com/atvirokodosprendimai/retailadmin/internal/domain"
)

func TestFormatCountsFollowsInsertionOrder(t *testing.T) {
	got := formatCounts(map[string]int{
		domain.EntityReview:   7,
		domain.EntityCategory: 12,
		"extra":               1,
		domain.EntityProduct:  120,
	})
	want := "category=12 product=120 review=7 extra=1"
	if got != want {
		t.Fatalf("formatCounts = %q, want %q", got, want)
	}
	if formatCounts(nil) != "-" {
		t.Fatalf("expected placeholder for empty counts")
	}
}
