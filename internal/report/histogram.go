package report

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/tbckr/asnmap/internal/output"
)

const barWidth = 40

// Bucket counts how many items share one value.
type Bucket struct {
	Value int `json:"value"`
	Count int `json:"count"`
}

// Histogram is a frequency table rendered with a text bar per bucket.
type Histogram struct {
	Title      string   `json:"title"`
	ValueLabel string   `json:"value_label"`
	CountLabel string   `json:"count_label"`
	Buckets    []Bucket `json:"buckets"`
}

// SiteHistogram counts sites by how many ASNs host them.
func (s *Summary) SiteHistogram() *Histogram {
	values := make([]int, len(s.Domains))
	for i, d := range s.Domains {
		values[i] = len(d.ASNs)
	}
	return newHistogram("ASNs per site", "ASNs", "Sites", values)
}

// ASNHistogram counts ASNs by how many sites they host.
func (s *Summary) ASNHistogram() *Histogram {
	values := make([]int, len(s.ASNs))
	for i, a := range s.ASNs {
		values[i] = len(a.Domains)
	}
	return newHistogram("Sites per ASN", "Sites", "ASNs", values)
}

func newHistogram(title, valueLabel, countLabel string, values []int) *Histogram {
	counts := make(map[int]int)
	for _, v := range values {
		counts[v]++
	}
	h := &Histogram{Title: title, ValueLabel: valueLabel, CountLabel: countLabel}
	for _, v := range slices.Sorted(maps.Keys(counts)) {
		h.Buckets = append(h.Buckets, Bucket{Value: v, Count: counts[v]})
	}
	return h
}

func (h *Histogram) maxCount() int {
	m := 0
	for _, b := range h.Buckets {
		m = max(m, b.Count)
	}
	return m
}

func (h *Histogram) bar(count int) string {
	peak := h.maxCount()
	if peak == 0 || count == 0 {
		return ""
	}
	n := max(1, count*barWidth/peak)
	return strings.Repeat("#", n)
}

// WriteText writes one "value count" line per bucket.
func (h *Histogram) WriteText(w io.Writer) error {
	for _, b := range h.Buckets {
		if _, err := fmt.Fprintf(w, "%d %d\n", b.Value, b.Count); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable renders the histogram with its title as a caption row.
func (h *Histogram) WriteTable(w io.Writer) error {
	if _, err := fmt.Fprintln(w, h.Title); err != nil {
		return err
	}
	rows := make([][]string, 0, len(h.Buckets))
	for _, b := range h.Buckets {
		rows = append(rows, []string{strconv.Itoa(b.Value), strconv.Itoa(b.Count), h.bar(b.Count)})
	}
	table := output.NewWrappingTable(w, barWidth, 0)
	table.Header([]string{h.ValueLabel, h.CountLabel, ""})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// Total returns the number of items counted.
func (h *Histogram) Total() int {
	n := 0
	for _, b := range h.Buckets {
		n += b.Count
	}
	return n
}
