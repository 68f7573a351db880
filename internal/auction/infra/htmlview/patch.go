package htmlview

// PatchOp names the kind of write applied to the document
type PatchOp string

const (
	PatchSetText     PatchOp = "set_text"     // element text replaced
	PatchSetAttr     PatchOp = "set_attr"     // attribute written
	PatchPrependRow  PatchOp = "prepend_row"  // row inserted as first child
	PatchSetValidity PatchOp = "set_validity" // form validation message written
)

// Patch describes one write so that browsers showing the page can replay it.
// Values are plain text, clients must assign them as text content
type Patch struct {
	Op     PatchOp  `json:"op"`
	Target string   `json:"target"`
	Name   string   `json:"name,omitempty"`
	Value  string   `json:"value,omitempty"`
	Cells  []string `json:"cells,omitempty"`
}
