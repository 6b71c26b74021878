package views

import "testing"

func TestParsePage(t *testing.T) {
	cases := []struct {
		page, limit string
		want        Page
	}{
		{"", "", Page{1, 10}},
		{"2", "25", Page{2, 25}},
		{"0", "0", Page{1, 10}},
		{"-3", "-1", Page{1, 10}},
		{"abc", "ten", Page{1, 10}},
		{"2abc", "5x", Page{1, 10}},
		{"4", "500", Page{4, MaxLimit}},
	}
	for _, c := range cases {
		if got := ParsePage(c.page, c.limit); got != c.want {
			t.Fatalf("ParsePage(%q, %q) = %+v, want %+v", c.page, c.limit, got, c.want)
		}
	}
}

func TestPageOffset(t *testing.T) {
	if off := (Page{Page: 3, Limit: 10}).Offset(); off != 20 {
		t.Fatalf("offset = %d, want 20", off)
	}
}

func TestNewPaginated(t *testing.T) {
	p := newPaginated[int](nil, 21, Page{Page: 2, Limit: 10})
	if p.Docs == nil || len(p.Docs) != 0 {
		t.Fatalf("docs should be an empty slice")
	}
	if p.TotalPages != 3 || !p.HasNextPage || !p.HasPrevPage {
		t.Fatalf("unexpected pagination: %+v", p)
	}

	last := newPaginated([]int{1}, 21, Page{Page: 3, Limit: 10})
	if last.HasNextPage {
		t.Fatalf("last page should not have a next page")
	}
}

func TestParseSort(t *testing.T) {
	cases := []struct {
		by, typ string
		want    Sort
	}{
		{"", "", Sort{"v.created_at", true}},
		{"views", "asc", Sort{"v.views", false}},
		{"title", "ASC", Sort{"v.title", false}},
		{"duration", "desc", Sort{"v.duration", true}},
		{"password; DROP TABLE users", "asc", Sort{"v.created_at", false}},
		{"views", "sideways", Sort{"v.views", true}},
	}
	for _, c := range cases {
		if got := ParseSort(c.by, c.typ, VideoSortKeys); got != c.want {
			t.Fatalf("ParseSort(%q, %q) = %+v, want %+v", c.by, c.typ, got, c.want)
		}
	}
}
