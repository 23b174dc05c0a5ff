package plan

import "encoding/json"

type jsonOutput struct {
	Template string  `json:"template,omitempty"`
	Counts   Counts  `json:"counts"`
	Blocks   []Block `json:"blocks"`
}

// Counts summarizes a document for logs and debugging output.
type Counts struct {
	Blocks   int `json:"blocks"`
	Headings int `json:"headings"`
	Entries  int `json:"entries"`
	Roles    int `json:"roles"`
	Bullets  int `json:"bullets"`
}

// Counts returns block totals by kind.
func (d *Document) Counts() Counts {
	return Counts{
		Blocks:   len(d.Blocks),
		Headings: d.Count(KindHeading),
		Entries:  d.Count(KindEntry),
		Roles:    d.Count(KindRole),
		Bullets:  d.Count(KindBullet),
	}
}

// RenderJSON exports the plan as a pretty-printed JSON document. The
// template ID is recorded for reference only; it has no effect on blocks.
func RenderJSON(d *Document, template string) ([]byte, error) {
	blocks := d.Blocks
	if blocks == nil {
		blocks = []Block{}
	}
	return json.MarshalIndent(jsonOutput{
		Template: template,
		Counts:   d.Counts(),
		Blocks:   blocks,
	}, "", "  ")
}
