package export

// Dataset defines tabular export content. Footer, when set, renders as a
// closing summary row keyed by header.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
	Footer  map[string]string
}

func (d Dataset) record(row map[string]string) []string {
	record := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		record[i] = row[header]
	}
	return record
}

func (d Dataset) allRows() []map[string]string {
	if d.Footer == nil {
		return d.Rows
	}
	rows := make([]map[string]string, 0, len(d.Rows)+1)
	rows = append(rows, d.Rows...)
	return append(rows, d.Footer)
}
