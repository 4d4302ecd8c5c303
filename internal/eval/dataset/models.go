package dataset

import "strings"

// Record is the subset of an Institutional Books 1.0 row the matcher
// evaluation needs. Unlisted columns are skipped by both readers.
// Dataset: https://huggingface.co/datasets/instdin/institutional-books-1.0
type Record struct {
	Barcode  string `json:"barcode_src" parquet:"barcode_src,optional"`
	Title    string `json:"title_src" parquet:"title_src,optional"`
	Author   string `json:"author_src" parquet:"author_src,optional"`
	Date     string `json:"date1_src" parquet:"date1_src,optional"`
	Language string `json:"language_src" parquet:"language_src,optional"`
}

// QueryTitle returns the catalog title cleaned of the trailing
// statement-of-responsibility punctuation that library records carry,
// e.g. "The sea-wolf /" becomes "The sea-wolf".
func (r Record) QueryTitle() string {
	t := strings.TrimSpace(r.Title)
	t = strings.TrimRight(t, " /:;,.")
	return strings.TrimSpace(t)
}
