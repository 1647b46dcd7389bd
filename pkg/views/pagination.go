package views

// Pagination describes which slice of the table is on screen. Pages are
// 1-based.
type Pagination struct {
	Enabled    bool
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
	// First and Last are the 1-based positions of the rows shown.
	First int
	Last  int
}

// Paginate clamps page into range for total items split into pages of
// pageSize.
func Paginate(total, page, pageSize int) Pagination {
	if pageSize <= 0 {
		pageSize = DefaultItemsPerPage
	}
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	page = min(max(page, 1), totalPages)

	p := Pagination{
		Enabled:    true,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
	if total > 0 {
		p.First = p.Offset() + 1
		p.Last = min(p.Offset()+pageSize, total)
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func (p Pagination) HasPrev() bool { return p.Page > 1 }
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }
func (p Pagination) PrevPage() int { return p.Page - 1 }
func (p Pagination) NextPage() int { return p.Page + 1 }

// Pages lists the page numbers offered as direct links.
func (p Pagination) Pages() []int {
	pages := make([]int, p.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
