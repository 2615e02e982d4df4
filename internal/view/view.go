// Package view projects the prediction history into filtered, paginated
// pages for display. Projection is pure and recomputed from scratch on every
// call; no state is shared with the history store.
package view

import (
	"github.com/yjs2001/material-synthesis-seer/internal/model"
)

// DefaultPageSize is the number of records per page.
const DefaultPageSize = 10

// Filter selects records by material and/or outcome label. Zero values mean
// no filtering. The two filters commute.
type Filter struct {
	Material model.Material
	Outcome  string
}

func (f Filter) match(r model.Record) bool {
	if f.Material != "" && r.Material != f.Material {
		return false
	}
	if f.Outcome != "" && r.Outcome.Label != f.Outcome {
		return false
	}
	return true
}

// Page is one display window over the filtered history.
type Page struct {
	Records    []model.Record `json:"records"`
	Index      int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Total      int            `json:"total"`
}

// Project applies f in insertion order and slices the 1-based page. The page
// index is expected to be clamped by the caller; an out-of-range index
// yields an empty record slice, never a panic.
func Project(records []model.Record, f Filter, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	var filtered []model.Record
	for _, r := range records {
		if f.match(r) {
			filtered = append(filtered, r)
		}
	}

	total := len(filtered)
	p := Page{Index: page, TotalPages: TotalPages(total, size), Total: total}

	start := (page - 1) * size
	if start < 0 || start >= total {
		return p
	}
	end := start + size
	if end > total {
		end = total
	}
	p.Records = filtered[start:end]
	return p
}

// TotalPages is ceil(n/size), never below 1.
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (n + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	return pages
}

// ClampPage keeps a requested page index inside [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Pager is the navigation control over a projected history. It owns the
// current filter and page index, resets to the first page whenever the
// filter or the underlying collection changes, and clamps every view into
// the valid page range.
type Pager struct {
	filter  Filter
	page    int
	size    int
	seenLen int
	seenTop string
	primed  bool
}

// NewPager creates a pager at page 1 with the given page size.
func NewPager(size int) *Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Pager{page: 1, size: size}
}

// SetFilter replaces the filter. A changed filter resets to page 1.
func (p *Pager) SetFilter(f Filter) {
	if f != p.filter {
		p.filter = f
		p.page = 1
	}
}

// Filter returns the active filter.
func (p *Pager) Filter() Filter { return p.filter }

// Goto requests a page index; it is clamped at the next View.
func (p *Pager) Goto(page int) { p.page = page }

// Next advances one page, clamped at the next View.
func (p *Pager) Next() { p.page++ }

// Prev goes back one page, clamped at the next View.
func (p *Pager) Prev() { p.page-- }

// View projects the current page of records. A collection that changed since
// the last view resets the index to 1 before clamping. Change is judged by
// size plus the newest record's id, which every append and every delete of
// the newest record moves; a remark edit keeps the page.
func (p *Pager) View(records []model.Record) Page {
	top := ""
	if len(records) > 0 {
		top = records[0].ID
	}
	if !p.primed {
		p.seenLen, p.seenTop = len(records), top
		p.primed = true
	} else if len(records) != p.seenLen || top != p.seenTop {
		p.seenLen, p.seenTop = len(records), top
		p.page = 1
	}

	probe := Project(records, p.filter, 1, p.size)
	p.page = ClampPage(p.page, probe.TotalPages)
	if p.page == 1 {
		return probe
	}
	return Project(records, p.filter, p.page, p.size)
}
