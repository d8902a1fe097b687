package material

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColor(t *testing.T) {
	tests := []struct {
		finish string
		want   color.RGBA
	}{
		{"18K Rose Gold", ColorRoseGold},
		{"18K White Gold", ColorWhiteGold},
		{"18K Yellow Gold", ColorYellowGold},
		{"Platinum", ColorPlatinum},
		{"14k rose gold", ColorRoseGold},
		{"PLATINUM 950", ColorPlatinum},
		{"Unknown", ColorDefault},
		{"", ColorDefault},
		{"Sterling Silver", ColorDefault},
	}

	for _, tc := range tests {
		t.Run(tc.finish, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveColor(tc.finish))
		})
	}
}

func TestResolveColorIsPure(t *testing.T) {
	for _, name := range []string{"Unknown", "Bronze", "🙂", "gold"} {
		first := ResolveColor(name)
		assert.Equal(t, ColorDefault, first, name)
		assert.Equal(t, first, ResolveColor(name), "second call for %q", name)
	}
}

func TestResolveColorKeywordOrder(t *testing.T) {
	// White is checked before Rose.
	assert.Equal(t, ColorWhiteGold, ResolveColor("Rose and White Two-Tone"))
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#B76E79", Hex(ColorRoseGold))
	assert.Equal(t, "#D4AF37", Hex(ColorDefault))
	assert.Equal(t, "#E5E4E2", Hex(ColorPlatinum))
}

func TestBuiltProfilesAreValid(t *testing.T) {
	for _, finish := range append(Finishes, "Unknown") {
		set := ForFinish(finish)
		for _, p := range set.All() {
			require.NoError(t, p.Validate(), "%s/%s", finish, p.Name)
		}
	}
}

func TestKindInvariants(t *testing.T) {
	metal := Metal(ColorRoseGold)
	assert.Equal(t, Metallic, metal.Kind)
	assert.Zero(t, metal.Transmission)

	for _, p := range []*Profile{Gem(), Accent()} {
		assert.Equal(t, Transmissive, p.Kind)
		assert.LessOrEqual(t, p.Metalness, 0.1)
		assert.Equal(t, IORDiamond, p.IOR)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Profile)
	}{
		{"transmissive metal", func(p *Profile) { p.Transmission = 0.5 }},
		{"roughness above one", func(p *Profile) { p.Roughness = 1.2 }},
		{"negative metalness", func(p *Profile) { p.Metalness = -0.1 }},
		{"ior below one", func(p *Profile) { p.IOR = 0.5 }},
		{"negative env", func(p *Profile) { p.EnvIntensity = -1 }},
		{"unknown kind", func(p *Profile) { p.Kind = Kind(7) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Metal(ColorDefault)
			tc.mutate(p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidProfile)
		})
	}

	gem := Gem()
	gem.Metalness = 0.9
	assert.ErrorIs(t, gem.Validate(), ErrInvalidProfile)
}

func TestSetSharesColor(t *testing.T) {
	set := ForFinish("18K Rose Gold")
	assert.Equal(t, ColorRoseGold, set.Metal.BaseColor)
	assert.Equal(t, ColorGem, set.Gem.BaseColor)
	assert.Len(t, set.All(), 3)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "metallic", Metallic.String())
	assert.Equal(t, "dielectric-transmissive", Transmissive.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
