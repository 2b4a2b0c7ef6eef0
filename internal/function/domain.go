package function

import (
	"strings"

	"github.com/roach88/mbstyle/internal/parse"
)

// numericSuffixes end the names of style properties holding numbers.
var numericSuffixes = []string{
	"-width", "-opacity", "-size", "-blur", "-radius", "-rotate", "-padding",
	"-spacing", "-height", "-base", "-weight", "-intensity", "-offset",
	"-translate", "-dasharray", "-letter-spacing", "-line-height", "-max-angle",
}

// DomainForProperty picks the domain of a style property from its name:
// *-color is a color, text-font a font stack, names of enumerations in ctx
// (with or without their layer prefix, so icon-rotation-alignment finds
// rotation-alignment) are enumerations, known numeric names are numeric and
// everything else is generic.
func DomainForProperty(ctx *parse.Context, name string) Domain {
	switch {
	case strings.HasSuffix(name, "-color"):
		return ColorDomain
	case name == "text-font":
		return FontDomain
	}

	if e, ok := ctx.Enumeration(name); ok {
		return EnumDomain(e)
	}
	if _, rest, found := strings.Cut(name, "-"); found {
		if e, ok := ctx.Enumeration(rest); ok {
			return EnumDomain(e)
		}
	}

	for _, suffix := range numericSuffixes {
		if strings.HasSuffix(name, suffix) {
			return NumericDomain
		}
	}
	return GenericDomain(TargetAny)
}
