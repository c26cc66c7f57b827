package material

import "fmt"

// Mode selects how materials are exported.
type Mode int

const (
	// MaterialAll writes every material and links it to its models.
	MaterialAll Mode = iota
	// MaterialLinkOnly links models to engine materials by name.
	MaterialLinkOnly
	// MaterialSaveOnly writes materials; models link to them as with MaterialAll.
	MaterialSaveOnly
	// MaterialNone exports no material data.
	MaterialNone
)

var modeNames = [...]string{
	MaterialAll:      "All",
	MaterialLinkOnly: "Link_Only",
	MaterialSaveOnly: "Save_Only",
	MaterialNone:     "No_Export",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode parses a material export mode name.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if s == name {
			return Mode(i), nil
		}
	}
	if s == "None" {
		return MaterialNone, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}
