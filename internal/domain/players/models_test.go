package players

import "testing"

func TestNewPlayersResponseCounts(t *testing.T) {
	items := []Player{
		{ID: "1", Active: true},
		{ID: "2", Active: false},
		{ID: "3", Active: true},
	}

	resp := NewPlayersResponse(items)
	if resp.Count != 3 || resp.Active != 2 || resp.Inactive != 1 {
		t.Fatalf("unexpected counts %+v", resp)
	}
}

func TestFilterActive(t *testing.T) {
	items := []Player{
		{ID: "1", Active: true},
		{ID: "2", Active: false},
	}

	if got := FilterActive(items, false); len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("expected inactive player only, got %+v", got)
	}
	if got := FilterActive(nil, true); len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestFullName(t *testing.T) {
	p := Player{FirstName: "Jane", LastName: "Doe"}
	if got := p.FullName(); got != "Jane Doe" {
		t.Fatalf("unexpected full name %q", got)
	}
	if got := (Player{LastName: "Solo"}).FullName(); got != "Solo" {
		t.Fatalf("expected trimmed name, got %q", got)
	}
}
