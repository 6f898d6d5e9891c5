package service

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"academy_backend/internal/config"
	"academy_backend/internal/model"
	"academy_backend/internal/util"
	"academy_backend/pkg/logger"

	"go.uber.org/zap"
)

// CurriculumService parses the curriculum markdown document into the typed
// model. The document is treated as read-only configuration: it is re-read
// and re-parsed on every call, so edits take effect without a restart. The
// document is small and parse frequency low, so the repeated work is fine.
//
// Expected document structure:
//
//	# Title
//	## Edition
//	## Phase I/II/III: Name (Weeks X-Y)
//	### WEEK N: Title
//	  **Subtitle:** ...
//	  **Objective:** ...
//	  **Topics:** (bullet list)
//	  **Activities:** (bullet list)
//	  **Deliverable:** ...
//	  **Skills:** ...
//	  #### free-form sub-sections kept as raw content
//	## Appendices
//	### Appendix X: Title
type CurriculumService struct {
	Paths []string
}

func NewCurriculumService(cfg *config.CourseConfig) *CurriculumService {
	return &CurriculumService{Paths: cfg.CurriculumPaths}
}

var (
	phaseHeadingRe    = regexp.MustCompile(`(?m)^## Phase (I{1,3}|IV|V):\s*(.+?)(?:\s*\((.+?)\))?\s*$`)
	appendicesRe      = regexp.MustCompile(`(?m)^## Appendices`)
	weekHeadingRe     = regexp.MustCompile(`(?m)^### WEEK (\d+):\s*(.+)$`)
	appendixHeadingRe = regexp.MustCompile(`(?m)^### Appendix ([A-Z]):\s*(.+)$`)
	fenceRe           = regexp.MustCompile("^```")
	subHeadingRe      = regexp.MustCompile(`^### `)
)

var romanToNum = map[string]int{"I": 1, "II": 2, "III": 3, "IV": 4, "V": 5}

// phaseInfo is the fixed display table; it wins over whatever the heading
// says so the site copy stays consistent when the document is reworded.
var phaseInfo = map[int]struct {
	Name      string
	WeekRange string
}{
	1: {"Foundation", "Weeks 1–3"},
	2: {"Building", "Weeks 4–8"},
	3: {"Mastery", "Weeks 9–12"},
}

// FindPath probes the candidate locations and returns the first that exists.
func (s *CurriculumService) FindPath() (string, error) {
	for _, candidate := range s.Paths {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: searched %s", util.ErrCurriculumNotFound, strings.Join(s.Paths, ", "))
}

// Load reads and parses the backing document. A missing document is fatal to
// the caller; there is nothing to render without it.
func (s *CurriculumService) Load() (*model.Curriculum, error) {
	path, err := s.FindPath()
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.Parse(string(raw)), nil
}

// Parse converts document text into the curriculum model. Blocks that do not
// match the heading grammar are skipped with a warning rather than failing
// the parse: one typo must not take the whole site down.
func (s *CurriculumService) Parse(raw string) *model.Curriculum {
	lines := strings.Split(raw, "\n")

	cur := &model.Curriculum{
		Duration: "12 Weeks",
		Goal:     "From zero coding knowledge to shipping production software",
	}

	// Header metadata lives in the first few lines.
	for _, line := range lines[:min(10, len(lines))] {
		switch {
		case strings.HasPrefix(line, "# ") && !strings.HasPrefix(line, "## "):
			cur.Title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
		case strings.HasPrefix(line, "## ") && strings.Contains(line, "Edition"):
			cur.Edition = strings.TrimSpace(strings.TrimPrefix(line, "## "))
		case strings.HasPrefix(line, "**Duration:**"):
			cur.Duration = strings.TrimSpace(strings.TrimPrefix(line, "**Duration:**"))
		case strings.HasPrefix(line, "**Goal:**"):
			cur.Goal = strings.TrimSpace(strings.TrimPrefix(line, "**Goal:**"))
		}
	}

	for _, section := range splitSections(raw) {
		if m := phaseHeadingRe.FindStringSubmatch(section); m != nil {
			num, ok := romanToNum[m[1]]
			if !ok {
				num = 1
			}
			name, weekRange := m[2], m[3]
			if info, ok := phaseInfo[num]; ok {
				name, weekRange = info.Name, info.WeekRange
			}
			cur.Phases = append(cur.Phases, model.Phase{
				Number:    num,
				Name:      name,
				WeekRange: weekRange,
				Weeks:     parseWeeks(section, num, name),
			})
			continue
		}
		if appendicesRe.MatchString(section) {
			cur.Appendices = parseAppendices(section)
		}
	}

	return cur
}

// splitSections cuts the document at each top-level ## heading. Lines inside
// fenced code blocks never start a section, so a ``` fence containing
// "## something" stays inside its week's content.
func splitSections(raw string) []string {
	var sections []string
	var current []string
	inCodeBlock := false

	for _, line := range strings.Split(raw, "\n") {
		if fenceRe.MatchString(line) {
			inCodeBlock = !inCodeBlock
		}
		if !inCodeBlock && strings.HasPrefix(line, "## ") && len(current) > 0 {
			sections = append(sections, strings.Join(current, "\n"))
			current = nil
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		sections = append(sections, strings.Join(current, "\n"))
	}
	return sections
}

// splitBlocks slices section at every line matching headingRe, dropping the
// text before the first heading. Headings inside fenced code blocks do not
// start a block, same as in splitSections.
func splitBlocks(section string, headingRe *regexp.Regexp) []string {
	var blocks []string
	var current []string
	inCodeBlock := false
	started := false

	for _, line := range strings.Split(section, "\n") {
		if fenceRe.MatchString(line) {
			inCodeBlock = !inCodeBlock
		}
		if !inCodeBlock && headingRe.MatchString(line) {
			if started {
				blocks = append(blocks, strings.Join(current, "\n"))
			}
			current = nil
			started = true
		}
		if started {
			current = append(current, line)
		}
	}
	if started {
		blocks = append(blocks, strings.Join(current, "\n"))
	}
	return blocks
}

func parseWeeks(section string, phaseNum int, phaseName string) []model.Week {
	warnUnmatchedBlocks(section, weekHeadingRe, "week")

	var weeks []model.Week
	for _, block := range splitBlocks(section, weekHeadingRe) {
		m := weekHeadingRe.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		num := 0
		fmt.Sscanf(m[1], "%d", &num)

		weeks = append(weeks, model.Week{
			Number:      num,
			Title:       strings.TrimSpace(m[2]),
			Subtitle:    extractField(block, "Subtitle"),
			Objective:   extractField(block, "Objective"),
			Phase:       phaseNum,
			PhaseName:   phaseName,
			Topics:      extractList(block, "Topics"),
			Activities:  extractList(block, "Activities"),
			Deliverable: extractField(block, "Deliverable"),
			Skills:      extractField(block, "Skills"),
			Content:     contentAfterSkills(block),
		})
	}
	return weeks
}

func parseAppendices(section string) []model.Appendix {
	warnUnmatchedBlocks(section, appendixHeadingRe, "appendix")

	var appendices []model.Appendix
	for _, block := range splitBlocks(section, appendixHeadingRe) {
		m := appendixHeadingRe.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		content := ""
		if idx := strings.Index(block, "\n"); idx > -1 {
			content = strings.TrimSpace(block[idx+1:])
		}
		appendices = append(appendices, model.Appendix{
			Letter:  m[1],
			Title:   strings.TrimSpace(m[2]),
			Content: content,
		})
	}
	return appendices
}

// warnUnmatchedBlocks flags ### headings that fail the expected grammar.
// Such blocks are absorbed into neighboring content and would otherwise
// vanish from the site without a trace.
func warnUnmatchedBlocks(section string, headingRe *regexp.Regexp, kind string) {
	inCodeBlock := false
	for _, line := range strings.Split(section, "\n") {
		if fenceRe.MatchString(line) {
			inCodeBlock = !inCodeBlock
		}
		if !inCodeBlock && subHeadingRe.MatchString(line) && !headingRe.MatchString(line) {
			logger.Log.Warn("curriculum heading does not match grammar, block skipped",
				zap.String("kind", kind),
				zap.String("heading", strings.TrimSpace(line)))
		}
	}
}

// extractField returns the single-line value following a "**Field:**" marker.
func extractField(block, field string) string {
	re := regexp.MustCompile(`(?i)\*\*` + regexp.QuoteMeta(field) + `:\*\*\s*(.+)`)
	if m := re.FindStringSubmatch(block); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// extractList collects "- item" bullets following a "**Field:**" marker line,
// stopping at a blank line or the next bold field.
func extractList(block, field string) []string {
	marker := regexp.MustCompile(`(?i)^\*\*` + regexp.QuoteMeta(field) + `:\*\*`)
	var items []string
	capturing := false

	for _, line := range strings.Split(block, "\n") {
		if marker.MatchString(line) {
			capturing = true
			continue
		}
		if !capturing {
			continue
		}
		if strings.HasPrefix(line, "- ") {
			items = append(items, strings.TrimSpace(strings.TrimPrefix(line, "- ")))
		} else if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "**") {
			capturing = false
		}
	}
	return items
}

// contentAfterSkills keeps everything below the **Skills:** line verbatim,
// preserving author-written sub-markdown for the renderer.
func contentAfterSkills(block string) string {
	var content []string
	afterSkills := false

	for _, line := range strings.Split(block, "\n") {
		if afterSkills {
			content = append(content, line)
		}
		if strings.HasPrefix(line, "**Skills:**") {
			afterSkills = true
		}
	}
	return strings.TrimSpace(strings.Join(content, "\n"))
}

// AllWeeks flattens weeks across phases in document order.
func (s *CurriculumService) AllWeeks() ([]model.Week, error) {
	cur, err := s.Load()
	if err != nil {
		return nil, err
	}
	return cur.AllWeeks(), nil
}

// Week looks up a single week by number.
func (s *CurriculumService) Week(number int) (*model.Week, error) {
	weeks, err := s.AllWeeks()
	if err != nil {
		return nil, err
	}
	for i := range weeks {
		if weeks[i].Number == number {
			return &weeks[i], nil
		}
	}
	return nil, util.ErrWeekNotFound
}

// Appendices returns all appendices in document order.
func (s *CurriculumService) Appendices() ([]model.Appendix, error) {
	cur, err := s.Load()
	if err != nil {
		return nil, err
	}
	return cur.Appendices, nil
}

// Appendix looks up an appendix by letter, case-insensitively.
func (s *CurriculumService) Appendix(letter string) (*model.Appendix, error) {
	appendices, err := s.Appendices()
	if err != nil {
		return nil, err
	}
	for i := range appendices {
		if strings.EqualFold(appendices[i].Letter, letter) {
			return &appendices[i], nil
		}
	}
	return nil, util.ErrAppendixNotFound
}

// Lint reports structural problems the parser tolerates: duplicate week
// numbers and gaps in 1..totalWeeks. Progress and certificate math assume a
// contiguous numbering, so the app surfaces these at startup.
func Lint(cur *model.Curriculum, totalWeeks int) []string {
	var problems []string
	seen := map[int]int{}
	for _, w := range cur.AllWeeks() {
		seen[w.Number]++
	}
	for n, count := range seen {
		if count > 1 {
			problems = append(problems, fmt.Sprintf("week %d appears %d times", n, count))
		}
	}
	for n := 1; n <= totalWeeks; n++ {
		if seen[n] == 0 {
			problems = append(problems, fmt.Sprintf("week %d is missing", n))
		}
	}
	for n := range seen {
		if n < 1 || n > totalWeeks {
			problems = append(problems, fmt.Sprintf("week %d is outside 1..%d", n, totalWeeks))
		}
	}
	return problems
}
