package pagination

import "testing"

func TestDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   PageRequest
		want PageRequest
	}{
		{"zero_values", PageRequest{}, PageRequest{Page: 1, PageSize: DefaultPageSize}},
		{"kept", PageRequest{Page: 3, PageSize: 50}, PageRequest{Page: 3, PageSize: 50}},
		{"clamped", PageRequest{Page: 2, PageSize: 1000}, PageRequest{Page: 2, PageSize: MaxPageSize}},
		{"negative", PageRequest{Page: -1, PageSize: -5}, PageRequest{Page: 1, PageSize: DefaultPageSize}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			got.Defaults()
			if got != tt.want {
				t.Errorf("Defaults() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	p := PageRequest{Page: 3, PageSize: 20}
	if p.Offset() != 40 {
		t.Errorf("expected offset 40, got %d", p.Offset())
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse[int](nil, 1, 20, 41)
	if resp.Data == nil || len(resp.Data) != 0 {
		t.Errorf("expected empty non-nil data, got %v", resp.Data)
	}
	if resp.TotalPages != 3 || !resp.HasNext {
		t.Errorf("expected 3 pages with a next page, got %+v", resp)
	}

	last := NewPageResponse([]int{1}, 3, 20, 41)
	if last.HasNext {
		t.Error("expected no next page on the last page")
	}

	empty := NewPageResponse([]int{}, 1, 20, 0)
	if empty.TotalPages != 0 || empty.HasNext {
		t.Errorf("unexpected empty response %+v", empty)
	}
}
