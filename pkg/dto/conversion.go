package dto

// Conversion describes one PDF to HTML conversion
type Conversion struct {
	Source        string `json:"source"`
	FileID        string `json:"file_id,omitempty"`
	Pages         int    `json:"pages,omitempty"`
	Bytes         int    `json:"bytes"`
	ImagesInlined int    `json:"images_inlined"`
	ImagesSkipped int    `json:"images_skipped"`
	HTML          string `json:"html,omitempty"`
}

// Summary returns a copy without the HTML payload, for logging and tool metadata
func (c Conversion) Summary() Conversion {
	c.HTML = ""
	return c
}
