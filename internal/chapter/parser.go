package chapter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"seriesync/internal/ranges"
)

// numPattern matches a single chapter number: digits with an optional single
// decile (either "." or the scanlation-style "p" separator), or the literal
// oneshot/bonus markers which map to chapter 0.
const numPattern = `(?:[0-9]+(?:[.p][0-9])?|(?i:oneshot|bonus))`

var (
	reCleanSpace = regexp.MustCompile(`[ _.]+`)
	reVolume     = regexp.MustCompile(`(?:^|[.])(?i:volume|vol|v)\.?(?P<volume>\d{1,2})`)
	reGroupTag   = regexp.MustCompile(`\[(?P<group>[a-zA-Z0-9][^\]]*)\]`)
	// Quoted titles require matching glyphs on both ends; the single-quote
	// form insists on a few characters so contractions ('s, 'm) do not read
	// as titles.
	reTitleBacktick = regexp.MustCompile("`(?P<title>[a-zA-Z0-9][^`]+)`")
	reTitleDouble   = regexp.MustCompile(`"(?P<title>[a-zA-Z0-9][^"]+)"`)
	reTitleSingle   = regexp.MustCompile(`'(?P<title>[a-zA-Z0-9][^']{2,})'`)
	reTitleCJK      = regexp.MustCompile(`[“「](?P<title>[a-zA-Z0-9].+)[」”]`)
	reChapterMark   = regexp.MustCompile(`(?:\b(?i:chapter|ch|c)|#)[#. -]*(?P<number>` + numPattern + `(?:-` + numPattern + `)?)(?:v[1-9])?`)
	reBareNumber    = regexp.MustCompile(`(?:^|[.#])(?P<number>` + numPattern + `(?:-` + numPattern + `)?)(?:v[1-9])?`)
	reTitleEpisode  = regexp.MustCompile(`(?P<title>Episode.\d+(?:\.?[^[]+)*)`)
	reTitleDash     = regexp.MustCompile(`-[.](?P<title>[a-zA-Z0-9].+)`)
	reGroupTrailing = regexp.MustCompile(`(?i:uploaded.by.)?(?P<group>[a-zA-Z0-9][^-]+)`)

	reOneshot = regexp.MustCompile(`(?i)^(?:oneshot|bonus)$`)
	reNamePad = regexp.MustCompile(`[ ._-]+`)
)

// parseRules is the extraction cascade, most specific first. Rules with an
// empty field only normalize separators; field rules consume their matched
// span so later rules cannot re-read it, and a field bound earlier is never
// rebound.
var parseRules = []struct {
	re    *regexp.Regexp
	field string
}{
	{reCleanSpace, ""},
	{reVolume, "volume"},
	{reGroupTag, "group"},
	{reTitleBacktick, "title"},
	{reTitleDouble, "title"},
	{reTitleSingle, "title"},
	{reTitleCJK, "title"},
	{reChapterMark, "number"},
	{reBareNumber, "number"},
	{reCleanSpace, ""},
	{reTitleEpisode, "title"},
	{reTitleDash, "title"},
	{reCleanSpace, ""},
	{reGroupTrailing, "group"},
}

// Build parses a chapter out of the given path's base name. The owning
// series name is stripped first (case-insensitive, with separator runs
// treated as interchangeable) so series titles containing numbers do not
// pollute number extraction.
func Build(seriesName, path string, isDir bool) (*Chapter, error) {
	name := filepath.Base(path)
	if !isDir {
		if i := strings.LastIndex(name, "."); i > 0 {
			name = name[:i]
		}
	}
	name = stripSeriesName(name, seriesName)

	parts := map[string]string{}
	for _, rule := range parseRules {
		if rule.field != "" {
			if _, bound := parts[rule.field]; bound {
				continue
			}
		}
		loc := rule.re.FindStringSubmatchIndex(name)
		if loc == nil {
			continue
		}
		for i, groupName := range rule.re.SubexpNames() {
			if groupName == "" || loc[2*i] < 0 {
				continue
			}
			value := name[loc[2*i]:loc[2*i+1]]
			if value == "" {
				continue
			}
			if _, bound := parts[groupName]; !bound {
				parts[groupName] = value
			}
		}
		if rule.field != "" {
			name = name[:loc[0]] + "." + name[loc[1]:]
		} else {
			name = rule.re.ReplaceAllString(name, ".")
		}
	}

	if _, ok := parts["number"]; !ok {
		if _, hasVolume := parts["volume"]; !hasVolume {
			return nil, fmt.Errorf("%w: %s", ErrParse, path)
		}
	}

	var numbers []float64
	if raw, ok := parts["number"]; ok {
		var err error
		numbers, err = parseNumbers(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
		}
	}
	volume := 0
	if raw, ok := parts["volume"]; ok {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad volume %q", ErrParse, path, raw)
		}
		volume = v
	}
	return New(numbers, volume, parts["group"], parts["title"], path, isDir)
}

// stripSeriesName removes the series title from the filename, matching it
// case-insensitively and treating any run of spaces, dots, underscores, or
// dashes within the title as interchangeable.
func stripSeriesName(name, seriesName string) string {
	words := reNamePad.Split(strings.TrimSpace(seriesName), -1)
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(w))
	}
	if len(quoted) == 0 {
		return name
	}
	re, err := regexp.Compile(`(?i)` + strings.Join(quoted, `[ ._-]+`))
	if err != nil {
		return name
	}
	return re.ReplaceAllString(name, ".")
}

// parseNumbers converts a matched number string into the set of chapter
// numbers it denotes. Ranges expand through the range engine; oneshot and
// bonus markers map to chapter 0.
func parseNumbers(raw string) ([]float64, error) {
	if reOneshot.MatchString(raw) {
		return []float64{0}, nil
	}
	fields := strings.Split(raw, "-")
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(strings.ToLower(f), "p", ".")
		if reOneshot.MatchString(f) {
			values = append(values, 0)
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if len(values) == 1 {
		return values, nil
	}
	return ranges.Expand(values[0], values[1:]...)
}
