package model

// Curriculum is the parse result of the curriculum markdown document. It is
// rebuilt from the source file on every read and never mutated afterwards.
type Curriculum struct {
	Title      string     `json:"title"`
	Edition    string     `json:"edition"`
	Duration   string     `json:"duration"`
	Goal       string     `json:"goal"`
	Phases     []Phase    `json:"phases"`
	Appendices []Appendix `json:"appendices"`
}

type Phase struct {
	Number    int    `json:"number"`
	Name      string `json:"name"`
	WeekRange string `json:"weekRange"`
	Weeks     []Week `json:"weeks"`
}

type Week struct {
	Number      int      `json:"number"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Objective   string   `json:"objective"`
	Phase       int      `json:"phase"`
	PhaseName   string   `json:"phaseName"`
	Topics      []string `json:"topics"`
	Activities  []string `json:"activities"`
	Deliverable string   `json:"deliverable"`
	Skills      string   `json:"skills"`
	// Content is the raw markdown after the structured fields, rendered
	// downstream; the parser treats it as opaque.
	Content string `json:"content"`
}

type Appendix struct {
	Letter  string `json:"letter"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// AllWeeks flattens weeks across phases in document order.
func (c *Curriculum) AllWeeks() []Week {
	var weeks []Week
	for _, p := range c.Phases {
		weeks = append(weeks, p.Weeks...)
	}
	return weeks
}
