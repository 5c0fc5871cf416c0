package extract

// Confidence states how an extracted field was obtained. Missing fields
// are recorded explicitly rather than dropped.
type Confidence int

const (
	Missing Confidence = iota
	Fallback
	Found
)

func (c Confidence) String() string {
	switch c {
	case Found:
		return "found"
	case Fallback:
		return "fallback"
	default:
		return "missing"
	}
}

type ValueKind int

const (
	ValueText ValueKind = iota
	ValueInteger
	ValueFloat
	ValueMultiplier
	ValuePercent
	ValueRange
	ValueQuantity
)

// Value is a typed attribute value. Text always carries the cleaned
// page text, the other fields depend on Kind:
//   - ValueInteger/ValueFloat: Number
//   - ValueMultiplier: Number holds the factor ("1.2x" -> 1.2)
//   - ValuePercent: Number holds the fraction ("40%" -> 0.4)
//   - ValueRange: Min and Max hold both bounds, never an average
//   - ValueQuantity: Number and Unit ("5 Strength" -> 5, "Strength")
type Value struct {
	Kind   ValueKind
	Text   string
	Number float64
	Min    float64
	Max    float64
	Unit   string
}

// RelKind classifies a reference candidate between two pages.
type RelKind string

const (
	RelCraftedFrom RelKind = "crafted-from"
	RelFoundIn     RelKind = "found-in"
	RelReferences  RelKind = "references"
)

// Ref is a candidate reference to another wiki page. It only names a
// target, resolution to a stored entity happens after the full pass.
type Ref struct {
	Target string
	Kind   RelKind
}

// Field is one extracted attribute of a page.
type Field struct {
	// Name is the snake_case field key.
	Name string
	// Label is the field label as written on the page.
	Label      string
	Value      Value
	Confidence Confidence
	// Source names the extractor that produced the field.
	Source string
	Refs   []Ref
}
