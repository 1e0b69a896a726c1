package shared

// Filter represents query filter options
type Filter struct {
	Search  string
	Limit   int
	Filters map[string]interface{}
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Filters: make(map[string]interface{}),
	}
}

// WithSearch returns a copy of the filter with a search term
func (f Filter) WithSearch(search string) Filter {
	f.Search = search
	return f
}
