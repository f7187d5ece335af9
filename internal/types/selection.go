package types

// Point is a 2D display coordinate, used only for positioning the floating
// action toolbar. Not part of logical selection state.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is a bounding rectangle in viewport coordinates.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SelectionState captures a live text selection inside an editable region.
// Range holds half-open rune offsets into SourceText; at capture time
// SourceText[Range.Start:Range.End] equals SelectedText.
type SelectionState struct {
	SourceText    string      `json:"source_text"`
	SelectedText  string      `json:"selected_text"`
	Range         OffsetRange `json:"range"`
	ToolbarAnchor Point       `json:"toolbar_anchor"`
}
