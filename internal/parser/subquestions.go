package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// SubQuestion is one 【小题N】 block of a legacy multi-part question body.
// The exam_items table supersedes this format; the parser is kept so old
// rows still render.
type SubQuestion struct {
	Index    int
	Type     string
	Material string
	Options  string
	Answer   string
	Explain  string
}

var (
	materialRe    = regexp.MustCompile(`【题目材料】(?s:(.*?))【/题目材料】`)
	subOpenRe     = regexp.MustCompile(`【小题(\d+)】`)
	subTypeRe     = regexp.MustCompile(`【类型】(.*?)【/类型】`)
	subMaterialRe = regexp.MustCompile(`【材料】(?s:(.*?))【/材料】`)
	subOptionsRe  = regexp.MustCompile(`【选项】(?s:(.*?))【/选项】`)
	subAnswerRe   = regexp.MustCompile(`【答案】(?s:(.*?))【/答案】`)
	subExplainRe  = regexp.MustCompile(`【解析】(?s:(.*?))【/解析】`)
)

// ParseSubQuestions splits a delimiter-tagged body into its shared material
// and the ordered sub-question blocks.
//
// A block only counts when its closing tag carries the same index as the
// opening one; anything else is skipped. Blocks come back in textual order,
// not sorted by index.
func ParseSubQuestions(text string) (string, []SubQuestion) {
	material := firstGroup(materialRe, text)
	subs := []SubQuestion{}

	pos := 0
	for pos < len(text) {
		loc := subOpenRe.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		openEnd := pos + loc[1]
		num := text[pos+loc[2] : pos+loc[3]]

		closing := "【/小题" + num + "】"
		rel := strings.Index(text[openEnd:], closing)
		if rel < 0 {
			pos = openEnd
			continue
		}

		body := text[openEnd : openEnd+rel]
		pos = openEnd + rel + len(closing)

		index, err := strconv.Atoi(num)
		if err != nil {
			continue
		}
		subs = append(subs, SubQuestion{
			Index:    index,
			Type:     firstGroup(subTypeRe, body),
			Material: firstGroup(subMaterialRe, body),
			Options:  firstGroup(subOptionsRe, body),
			Answer:   firstGroup(subAnswerRe, body),
			Explain:  firstGroup(subExplainRe, body),
		})
	}
	return material, subs
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
