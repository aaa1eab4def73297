package pagination

import "testing"

func TestValidateClampsValues(t *testing.T) {
	p := &PaginationParams{Page: 0, PerPage: 500}
	p.Validate()
	if p.Page != 1 || p.PerPage != 100 {
		t.Fatalf("Validate() = %+v, want page 1 per_page 100", p)
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name       string
		page, per  int
		n          int
		start, end int
	}{
		{"first page", 1, 10, 25, 0, 10},
		{"last partial page", 3, 10, 25, 20, 25},
		{"past the end", 5, 10, 25, 25, 25},
		{"empty", 1, 15, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &PaginationParams{Page: tt.page, PerPage: tt.per}
			start, end := p.Window(tt.n)
			if start != tt.start || end != tt.end {
				t.Errorf("Window(%d) = [%d,%d), want [%d,%d)", tt.n, start, end, tt.start, tt.end)
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	pg := NewPagination(2, 10, 25)
	if pg.TotalPages != 3 || !pg.HasNext || !pg.HasPrev {
		t.Fatalf("NewPagination() = %+v", pg)
	}
}
