package vsdx

// Summary is the aggregate view over one extraction result, computed without I/O.
type Summary struct {
	PageCount        int     `json:"page_count"`
	MasterCount      int     `json:"master_count"`
	HasAppProperties bool    `json:"has_app_properties"`
	HasDocument      bool    `json:"has_document"`
	TotalElements    int     `json:"total_elements"`
	AverageElements  float64 `json:"average_elements"`
	MinElements      int     `json:"min_elements"`
	MaxElements      int     `json:"max_elements"`
	// MinPage and MaxPage are the display names of the extreme pages; ties go to
	// the lowest ordinal. Empty when there are no pages.
	MinPage     string `json:"min_page,omitempty"`
	MaxPage     string `json:"max_page,omitempty"`
	Diagnostics int    `json:"diagnostics"`
}

// Summarize computes part counts and element statistics over the Page parts.
// With zero pages, average/min/max are all 0 — never a division by zero.
func Summarize(r *Result) Summary {
	s := Summary{
		PageCount:        len(r.Pages),
		MasterCount:      len(r.Masters),
		HasAppProperties: r.AppProperties != nil,
		HasDocument:      r.Document != nil,
		Diagnostics:      len(r.Diagnostics),
	}
	if len(r.Pages) == 0 {
		return s
	}
	min, max := r.Pages[0], r.Pages[0]
	for _, p := range r.Pages {
		s.TotalElements += p.Elements
		if p.Elements < min.Elements {
			min = p
		}
		if p.Elements > max.Elements {
			max = p
		}
	}
	s.AverageElements = float64(s.TotalElements) / float64(len(r.Pages))
	s.MinElements = min.Elements
	s.MaxElements = max.Elements
	s.MinPage = min.Name
	s.MaxPage = max.Name
	return s
}
