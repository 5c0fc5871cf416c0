package extract

import (
	"regexp"
	"strconv"
	"strings"

	"kenshidata/lib/textutil"
)

var (
	circaRe      = regexp.MustCompile(`\bc\.\s*`)
	integerRe    = regexp.MustCompile(`^[+-]?[\d,]+$`)
	floatRe      = regexp.MustCompile(`^[+-]?\d+\.\d+$`)
	multiplierRe = regexp.MustCompile(`^[+-]?[\d.]+x$`)
	percentRe    = regexp.MustCompile(`^[+-]?[\d.]+%$`)
	rangeRe      = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*[-–]\s*(\d+(?:\.\d+)?)$`)
	quantityRe   = regexp.MustCompile(`^([+-]?[\d,]+(?:\.\d+)?)\s+([A-Za-z][A-Za-z ]*)$`)
)

// ParseValue types a raw attribute string. Circa markers ("c. 1,000"),
// embedded tabs/newlines and thousands separators are tolerated, text
// that fits no numeric shape stays ValueText verbatim.
func ParseValue(raw string) Value {
	text := textutil.CollapseSpace(raw)
	v := Value{Kind: ValueText, Text: text}

	cleaned := strings.TrimSpace(circaRe.ReplaceAllString(text, ""))
	if cleaned == "" {
		return v
	}

	switch {
	case rangeRe.MatchString(cleaned):
		groups := rangeRe.FindStringSubmatch(cleaned)
		min, err1 := strconv.ParseFloat(groups[1], 64)
		max, err2 := strconv.ParseFloat(groups[2], 64)
		if err1 != nil || err2 != nil {
			return v
		}
		v.Kind = ValueRange
		v.Min = min
		v.Max = max
	case integerRe.MatchString(cleaned):
		n, err := strconv.ParseInt(strings.ReplaceAll(cleaned, ",", ""), 10, 64)
		if err != nil {
			return v
		}
		v.Kind = ValueInteger
		v.Number = float64(n)
	case floatRe.MatchString(cleaned):
		n, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return v
		}
		v.Kind = ValueFloat
		v.Number = n
	case multiplierRe.MatchString(cleaned):
		n, err := strconv.ParseFloat(strings.TrimSuffix(cleaned, "x"), 64)
		if err != nil {
			return v
		}
		v.Kind = ValueMultiplier
		v.Number = n
	case percentRe.MatchString(cleaned):
		n, err := strconv.ParseFloat(strings.TrimSuffix(cleaned, "%"), 64)
		if err != nil {
			return v
		}
		v.Kind = ValuePercent
		v.Number = n / 100
	case quantityRe.MatchString(cleaned):
		groups := quantityRe.FindStringSubmatch(cleaned)
		n, err := strconv.ParseFloat(strings.ReplaceAll(groups[1], ",", ""), 64)
		if err != nil {
			return v
		}
		v.Kind = ValueQuantity
		v.Number = n
		v.Unit = strings.TrimSpace(groups[2])
	}

	return v
}

var statTokenRe = regexp.MustCompile(`-\s*([A-Za-z][A-Za-z .']*)|(\d+(?:\.\d+)?\s*kg|[+-]?[\d.,]+(?:x|%)?)`)

// ParseStats tokenizes a stat blob like "-Blunt Damage 1.2x -Required
// Strength 40" into named values. A name token opens a stat, the next
// value token closes it, values without a preceding name are dropped.
func ParseStats(text string) []Field {
	var out []Field
	pendingName := ""
	pendingLabel := ""
	for _, m := range statTokenRe.FindAllStringSubmatch(text, -1) {
		if m[1] != "" {
			pendingLabel = textutil.CollapseSpace(m[1])
			pendingName = textutil.SnakeCase(pendingLabel)
			continue
		}
		if pendingName == "" {
			continue
		}
		out = append(out, Field{
			Name:       pendingName,
			Label:      pendingLabel,
			Value:      ParseValue(m[2]),
			Confidence: Found,
		})
		pendingName = ""
		pendingLabel = ""
	}
	return out
}
