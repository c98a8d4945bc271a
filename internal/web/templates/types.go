package templates

// Page is the full form page.
type Page struct {
	Title string
	Panel Panel
}

// Panel is the part of the page swapped by a lookup: the form plus the last
// submission outcome.
type Panel struct {
	Sections []Section
	Status   *Status
	Result   *Result
}

type Section struct {
	Title  string
	Fields []Field
}

type Field struct {
	Key         string
	Label       string
	Value       string
	Placeholder string
	YesNo       bool
	Checked     bool
	Lookup      bool // the sample number input triggers a lookup on change
	Multiline   bool
}

// Status levels map to CSS classes.
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

type Status struct {
	Level   string
	Message string
}

type Result struct {
	Status          Status
	SampleNumber    string
	Row             int
	Created         bool
	DuplicateRows   []int
	DownloadURL     string
	FileName        string
	ArchiveLocation string
}
