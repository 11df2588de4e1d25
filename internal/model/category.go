package model

// Category is a sidebar grouping label maintained independently of
// tasks. Task tags are free strings, not references into this list.
type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
