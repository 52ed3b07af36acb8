package paging

// LinkFunc builds the navigation target for a page at a given page size.
type LinkFunc func(page, pageSize int) string

// Pagination is the model behind the page controls.
type Pagination struct {
	ActivePage int `json:"active_page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`

	Prev  *Link  `json:"prev,omitempty"`
	Next  *Link  `json:"next,omitempty"`
	Pages []Link `json:"pages"`

	PageSizes []PageSizeOption `json:"page_sizes"`
}

type Link struct {
	Page   int    `json:"page"`
	URL    string `json:"url"`
	Active bool   `json:"active,omitempty"`
}

// PageSizeOption keeps the active page and swaps the page size, so choosing
// one refetches with the recomputed offset.
type PageSizeOption struct {
	Size     int    `json:"size"`
	URL      string `json:"url"`
	Selected bool   `json:"selected,omitempty"`
}

const pageWindow = 7

// NewPagination returns nil when totalCount is zero: no controls are shown.
func NewPagination(activePage, pageSize, totalCount int, link LinkFunc) *Pagination {
	if totalCount <= 0 || pageSize <= 0 {
		return nil
	}

	p := &Pagination{
		ActivePage: activePage,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: (totalCount + pageSize - 1) / pageSize,
	}

	if activePage > 1 {
		prev := activePage - 1
		if prev > p.TotalPages {
			prev = p.TotalPages
		}
		p.Prev = &Link{Page: prev, URL: link(prev, pageSize)}
	}
	if activePage < p.TotalPages {
		next := activePage + 1
		if next < 1 {
			next = 1
		}
		p.Next = &Link{Page: next, URL: link(next, pageSize)}
	}

	first, last := window(activePage, p.TotalPages)
	for n := first; n <= last; n++ {
		p.Pages = append(p.Pages, Link{Page: n, URL: link(n, pageSize), Active: n == activePage})
	}

	sizes := PageSizeOptions
	if !containsInt(sizes, pageSize) {
		sizes = append(append([]int{}, sizes...), pageSize)
	}
	for _, s := range sizes {
		p.PageSizes = append(p.PageSizes, PageSizeOption{Size: s, URL: link(activePage, s), Selected: s == pageSize})
	}
	return p
}

// window picks at most pageWindow page numbers centered on active.
func window(active, total int) (int, int) {
	first := active - pageWindow/2
	if first < 1 {
		first = 1
	}
	last := first + pageWindow - 1
	if last > total {
		last = total
		first = last - pageWindow + 1
		if first < 1 {
			first = 1
		}
	}
	return first, last
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
