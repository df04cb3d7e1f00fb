package maps

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Busan", Control},
		{"Watchpoint: Gibraltar", Escort},
		{"King's Row", Hybrid},
		{"kings row", Hybrid},
		{"King’s Row", Hybrid},
		{"Paraíso", Hybrid},
		{"paraiso", Hybrid},
		{"ESPERANÇA", Push},
		{"  New Junk City ", Flashpoint},
		{"Hanaoka", Clash},
		{"Temple of Anubis", ""},
		{"All", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Type(tt.name))
		})
	}
}

func TestTypeAccentInsensitive(t *testing.T) {
	assert.Equal(t, Type("Paraíso"), Type("paraiso"))
	assert.Equal(t, Type("Esperança"), Type("esperanca"))
}

func TestToken(t *testing.T) {
	assert.Equal(t, "all-maps", Token("All"))
	assert.Equal(t, "lijiang-tower", Token("Lijiang Tower"))
	assert.Equal(t, "route-66", Token("Route 66"))
	assert.Equal(t, "busan", Token("Busan"))
}
