package interpolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtectRestore(t *testing.T) {
	tests := []struct {
		in        string
		protected string
		originals []string
	}{
		{"no variables", "no variables", nil},
		{"残り%d回", "残り{{var_1}}回", []string{"%d"}},
		{"{0}さんが{1}を獲得", "{{var_1}}さんが{{var_2}}を獲得", []string{"{0}", "{1}"}},
		{"HP ${hp}/%1$s", "HP {{var_1}}/{{var_2}}", []string{"${hp}", "%1$s"}},
		{"100%%", "100{{var_1}}", []string{"%%"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			protected, mappings := Protect(tt.in)
			assert.Equal(t, tt.protected, protected)
			require.Len(t, mappings, len(tt.originals))
			for i, m := range mappings {
				assert.Equal(t, tt.originals[i], m.Original)
				assert.Equal(t, i+1, m.Index)
			}
			assert.Equal(t, tt.in, Restore(protected, mappings))
		})
	}
}

func TestRestore_ReorderedPlaceholders(t *testing.T) {
	_, mappings := Protect("{0}が{1}を")
	assert.Equal(t, "{1} by {0}", Restore("{{var_2}} by {{var_1}}", mappings))
}
