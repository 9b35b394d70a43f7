// Package crossref provides a client for the Crossref works-by-ISSN API,
// used to top up results when the primary source is short of the target
// count. Crossref often lists the very freshest items first.
//
// API Documentation: https://api.crossref.org/
package crossref

// worksResponse is one page of the journals/{issn}/works endpoint.
type worksResponse struct {
	Message struct {
		Items      []workItem `json:"items"`
		NextCursor string     `json:"next-cursor"`
	} `json:"message"`
}

// workItem is one Crossref work. Titles and container titles are multi-part;
// dates come as [year, month, day] triples with trailing parts optional.
type workItem struct {
	DOI             string     `json:"DOI"`
	Title           []string   `json:"title"`
	Abstract        string     `json:"abstract"`
	ContainerTitle  []string   `json:"container-title"`
	PublishedOnline *dateField `json:"published-online"`
	PublishedPrint  *dateField `json:"published-print"`
	Issued          *dateField `json:"issued"`
}

type dateField struct {
	DateParts [][]int `json:"date-parts"`
}
