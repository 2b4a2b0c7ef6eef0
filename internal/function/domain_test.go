package function

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/mbstyle/internal/parse"
)

func TestDomainForProperty(t *testing.T) {
	ctx := parse.NewContext()
	enum := func(name string) Domain {
		e, _ := ctx.Enumeration(name)
		return EnumDomain(e)
	}

	tests := []struct {
		property string
		want     Domain
	}{
		{"fill-color", ColorDomain},
		{"text-halo-color", ColorDomain},
		{"text-font", FontDomain},
		{"line-join", enum(parse.EnumLineJoin)},
		{"visibility", enum(parse.EnumVisibility)},
		{"icon-rotation-alignment", enum(parse.EnumRotationAlignment)},
		{"fill-translate-anchor", enum(parse.EnumTranslateAnchor)},
		{"line-width", NumericDomain},
		{"fill-opacity", NumericDomain},
		{"text-offset", NumericDomain},
		{"text-field", GenericDomain(TargetAny)},
		{"fill-antialias", GenericDomain(TargetAny)},
	}

	for _, tt := range tests {
		t.Run(tt.property, func(t *testing.T) {
			assert.Equal(t, tt.want, DomainForProperty(ctx, tt.property))
		})
	}
}
